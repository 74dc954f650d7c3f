package wallet

import (
	"github.com/vitelabs/go-walletd/common/types"
	"github.com/vitelabs/go-walletd/seria"
)

const recordVersion = 1

type AddressRecord struct {
	Index             uint32
	Label             string
	CreationTimestamp uint64
	SpendPublicKey    types.PublicKey
}

func (a *AddressRecord) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("index")
	s.Uint32(&a.Index)
	s.ObjectKey("label")
	s.String(&a.Label)
	s.ObjectKey("creationTimestamp")
	s.Uint64(&a.CreationTimestamp)
	seria.Field(s, "spendPublicKey", &a.SpendPublicKey)
	s.EndObject()
}

// Record is the encrypted content of a wallet file.
type Record struct {
	Version           uint32
	CreationTimestamp uint64
	Entropy           []byte
	ViewOnly          bool
	Addresses         []AddressRecord
	Labels            map[string]string
	ScanHeight        uint32
}

func (r *Record) Seria(s seria.Archive) {
	s.BeginObject()
	s.ObjectKey("version")
	s.Uint32(&r.Version)
	s.ObjectKey("creationTimestamp")
	s.Uint64(&r.CreationTimestamp)
	s.ObjectKey("entropy")
	s.Bytes(&r.Entropy)
	s.ObjectKey("viewOnly")
	s.Bool(&r.ViewOnly)
	s.ObjectKey("addresses")
	seria.SliceOf(s, &r.Addresses)
	s.ObjectKey("labels")
	seria.StringMap(s, &r.Labels, seria.Archive.String)
	s.ObjectKey("scanHeight")
	s.Uint32(&r.ScanHeight)
	s.EndObject()
}

func (r *Record) clone() *Record {
	c := *r
	c.Entropy = append([]byte(nil), r.Entropy...)
	c.Addresses = append([]AddressRecord(nil), r.Addresses...)
	if r.Labels != nil {
		c.Labels = make(map[string]string, len(r.Labels))
		for k, v := range r.Labels {
			c.Labels[k] = v
		}
	}
	return &c
}
