package common

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

func makeDefaultLogger(absFilePath string) io.Writer {
	return &lumberjack.Logger{
		Filename:   absFilePath,
		MaxSize:    100,
		MaxBackups: 14,
		MaxAge:     14,
		Compress:   true,
		LocalTime:  true,
	}
}

func parseLevel(lvl string) log.Lvl {
	logLevel, err := log.LvlFromString(lvl)
	if err != nil {
		return log.LvlInfo
	}
	return logLevel
}

// LogHandler writes logfmt records at lvl or above to a rotating file.
// Unknown levels fall back to info.
func LogHandler(path, subDir, filename, lvl string) log.Handler {
	absFilename := filepath.Join(path, subDir, filename)
	out := makeDefaultLogger(absFilename)
	return log.LvlFilterHandler(parseLevel(lvl), log.StreamHandler(out, log.LogfmtFormat()))
}

// TerminalHandler writes to stderr, colored when stderr is a terminal.
func TerminalHandler(lvl string) log.Handler {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	var out io.Writer = os.Stderr
	if useColor {
		out = colorable.NewColorableStderr()
	}
	return log.LvlFilterHandler(parseLevel(lvl), log.StreamHandler(out, log.TerminalFormat(useColor)))
}

// SetupLogging routes the root logger to the terminal and, when logFile
// is set, to a rotating file as well.
func SetupLogging(lvl, logFile string) {
	handler := TerminalHandler(lvl)
	if logFile != "" {
		dir, name := filepath.Split(logFile)
		handler = log.MultiHandler(handler, LogHandler(dir, "", name, lvl))
	}
	log.Root().SetHandler(handler)
}
