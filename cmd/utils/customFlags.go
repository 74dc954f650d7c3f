package utils

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/vitelabs/go-walletd/common"
)

type DirectoryString struct {
	Value string
}

func (self *DirectoryString) String() string {
	return self.Value
}

func (self *DirectoryString) Set(value string) error {
	self.Value = expandPath(value)
	return nil
}

// DirectoryFlag is a cli.Flag that expands ~ and environment variables,
// e.g. ~/.walletd -> /home/username/.walletd
type DirectoryFlag struct {
	Name  string
	Value DirectoryString
	Usage string
}

func (self DirectoryFlag) String() string {
	fmtString := "%s %v\t%v"
	if len(self.Value.Value) > 0 {
		fmtString = "%s \"%v\"\t%v"
	}
	return fmt.Sprintf(fmtString, prefixedNames(self.Name), self.Value.Value, self.Usage)
}

func eachName(longName string, fn func(string)) {
	for _, name := range strings.Split(longName, ",") {
		fn(strings.TrimSpace(name))
	}
}

func (self DirectoryFlag) Apply(set *flag.FlagSet) {
	eachName(self.Name, func(name string) {
		set.Var(&self.Value, name, self.Usage)
	})
}

func (self DirectoryFlag) GetName() string {
	return self.Name
}

func prefixedNames(fullName string) string {
	var names []string
	eachName(fullName, func(name string) {
		if len(name) == 1 {
			names = append(names, "-"+name)
		} else {
			names = append(names, "--"+name)
		}
	})
	return strings.Join(names, ", ")
}

func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := common.HomeDir(); home != "" {
			p = home + p[1:]
		}
	}
	return path.Clean(os.ExpandEnv(p))
}
