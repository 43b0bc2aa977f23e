package domain

import "sort"

// KeyReplacement holds, for a signer pending replacement, the signer that
// already replaces it, if any, and the candidates the user can choose from.
type KeyReplacement struct {
	Xfp        string
	ReplaceBy  *SignerServer
	Candidates []SignerServer
}

// ReplaceWalletStatus is the replacement state of a wallet as last reported
// by the server. It's never persisted.
type ReplaceWalletStatus struct {
	WalletID           string
	PendingReplaceXfps []string
	Signers            map[string]KeyReplacement
}

// Validate checks that every pending xfp has an entry in Signers.
func (s ReplaceWalletStatus) Validate() error {
	for _, xfp := range s.PendingReplaceXfps {
		if _, ok := s.Signers[xfp]; !ok {
			return ErrInvalidReplaceStatus
		}
	}
	return nil
}

func (s ReplaceWalletStatus) IsPending(xfp string) bool {
	for _, pending := range s.PendingReplaceXfps {
		if pending == xfp {
			return true
		}
	}
	return false
}

// AllSigners returns the replacing signers and the candidates of every entry,
// without duplicates.
func (s ReplaceWalletStatus) AllSigners() []SignerServer {
	seen := make(map[string]struct{})
	signers := make([]SignerServer, 0)
	add := func(signer SignerServer) {
		id := signer.Identity()
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		signers = append(signers, signer)
	}

	for _, xfp := range s.sortedXfps() {
		entry := s.Signers[xfp]
		if entry.ReplaceBy != nil {
			add(*entry.ReplaceBy)
		}
		for _, candidate := range entry.Candidates {
			add(candidate)
		}
	}
	return signers
}

// sortedXfps returns the keys of Signers with the pending ones first, in
// their reported order.
func (s ReplaceWalletStatus) sortedXfps() []string {
	xfps := make([]string, 0, len(s.Signers))
	seen := make(map[string]struct{})
	for _, xfp := range s.PendingReplaceXfps {
		if _, ok := s.Signers[xfp]; ok {
			xfps = append(xfps, xfp)
			seen[xfp] = struct{}{}
		}
	}
	rest := make([]string, 0)
	for xfp := range s.Signers {
		if _, ok := seen[xfp]; !ok {
			rest = append(rest, xfp)
		}
	}
	sort.Strings(rest)
	return append(xfps, rest...)
}
