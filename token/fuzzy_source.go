package token

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const maxSearchResults = 10

type fuzzySource []TableEntry

func (s fuzzySource) Len() int {
	return len(s)
}

func (s fuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", s[i].Symbol, walletcommon.CanonicalAddress(s[i].Address))
}

// Search fuzzy matches query against the symbols and addresses of the
// tokens known on chainID, best match first. Equal matches keep the
// symbol order of Entries.
func (t *Table) Search(chainID uint64, query string) []TableEntry {
	source := fuzzySource(t.Entries(chainID))
	matches := fuzzy.FindFrom(strings.ReplaceAll(strings.TrimSpace(query), " ", "_"), source)
	result := []TableEntry{}
	for i := 0; i < len(matches) && i < maxSearchResults; i++ {
		result = append(result, source[matches[i].Index])
	}
	return result
}
