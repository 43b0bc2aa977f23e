package domain

import (
	"fmt"
	"strings"
)

// SignerType is the engine's classification of a signer.
type SignerType int

const (
	SignerTypeUnknown SignerType = iota
	SignerTypeHardware
	SignerTypeAirgap
	SignerTypeSoftware
	SignerTypeForeignSoftware
	SignerTypeNFC
	SignerTypeColdcardNFC
	SignerTypeServer
	SignerTypePortalNFC
)

var signerTypeNames = map[SignerType]string{
	SignerTypeUnknown:         "UNKNOWN",
	SignerTypeHardware:        "HARDWARE",
	SignerTypeAirgap:          "AIRGAP",
	SignerTypeSoftware:        "SOFTWARE",
	SignerTypeForeignSoftware: "FOREIGN_SOFTWARE",
	SignerTypeNFC:             "NFC",
	SignerTypeColdcardNFC:     "COLDCARD_NFC",
	SignerTypeServer:          "SERVER",
	SignerTypePortalNFC:       "PORTAL_NFC",
}

func (t SignerType) String() string {
	if name, ok := signerTypeNames[t]; ok {
		return name
	}
	return signerTypeNames[SignerTypeUnknown]
}

// ParseSignerType maps a server type string to the engine's type. Unknown
// values are reported with ok=false and map to SignerTypeUnknown.
func ParseSignerType(str string) (t SignerType, ok bool) {
	str = strings.ToUpper(strings.TrimSpace(str))
	for t, name := range signerTypeNames {
		if t != SignerTypeUnknown && name == str {
			return t, true
		}
	}
	return SignerTypeUnknown, false
}

// SignerTag is a free-form label the server attaches to a signer, restricted
// to the values known by the engine.
type SignerTag int

const (
	SignerTagInheritance SignerTag = iota
	SignerTagKeystone
	SignerTagJade
	SignerTagPassport
	SignerTagSeedSigner
	SignerTagColdcard
	SignerTagTrezor
	SignerTagLedger
	SignerTagBitbox
	SignerTagKeepkey
)

var signerTagNames = map[SignerTag]string{
	SignerTagInheritance: "INHERITANCE",
	SignerTagKeystone:    "KEYSTONE",
	SignerTagJade:        "JADE",
	SignerTagPassport:    "PASSPORT",
	SignerTagSeedSigner:  "SEEDSIGNER",
	SignerTagColdcard:    "COLDCARD",
	SignerTagTrezor:      "TREZOR",
	SignerTagLedger:      "LEDGER",
	SignerTagBitbox:      "BITBOX",
	SignerTagKeepkey:     "KEEPKEY",
}

func (t SignerTag) String() string {
	return signerTagNames[t]
}

// ParseSignerTag maps a single server tag to the engine's tag.
func ParseSignerTag(str string) (SignerTag, bool) {
	str = strings.ToUpper(strings.TrimSpace(str))
	for t, name := range signerTagNames {
		if name == str {
			return t, true
		}
	}
	return 0, false
}

// ParseSignerTags maps the given server tags, dropping the unknown ones.
func ParseSignerTags(tags []string) []SignerTag {
	parsed := make([]SignerTag, 0, len(tags))
	for _, str := range tags {
		if t, ok := ParseSignerTag(str); ok {
			parsed = append(parsed, t)
		}
	}
	return parsed
}

// TapsignerMeta identifies the card backing a hardware-token signer.
type TapsignerMeta struct {
	CardID      string
	Version     string
	BirthHeight int
	IsTestnet   bool
}

// SignerServer is the server-side descriptor of a signer either awaiting or
// already materialized in the local engine.
type SignerServer struct {
	Name           string
	Xfp            string
	DerivationPath string
	Type           string
	Tags           []string
	Tapsigner      *TapsignerMeta
	Xpub           string
	Pubkey         string
}

// IsTapsigner tells whether the signer is backed by a hardware token.
func (s SignerServer) IsTapsigner() bool {
	return s.Tapsigner != nil
}

// Identity returns the composite identity of the signer, made of its xpub,
// pubkey, derivation path and master fingerprint.
func (s SignerServer) Identity() string {
	return fmt.Sprintf(
		"%s|%s|%s|%s", s.Xpub, s.Pubkey, s.DerivationPath, NormalizeXfp(s.Xfp),
	)
}

// MasterSignerID returns the id the engine knows the signer by.
func (s SignerServer) MasterSignerID() string {
	return NormalizeXfp(s.Xfp)
}

// NormalizeXfp returns the canonical, lowercase form of a master fingerprint.
func NormalizeXfp(xfp string) string {
	return strings.ToLower(strings.TrimSpace(xfp))
}
