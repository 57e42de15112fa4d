package synonym

import (
	"github.com/heartmarshall/synonym-backend/internal/domain"
	"github.com/heartmarshall/synonym-backend/internal/format"
)

// GroupedItem is every synonym imported for one word.
type GroupedItem struct {
	Word     string
	Synonyms []string
}

// Group collapses raw pairs into one item per word. Words keep the order in
// which they first appear, synonyms keep their first-seen order, and
// duplicates are dropped. Words are compared as-is.
func Group(items []format.RawItem) []GroupedItem {
	grouped := make([]GroupedItem, 0)
	index := make(map[string]int)

	for _, it := range items {
		i, ok := index[it.Word]
		if !ok {
			i = len(grouped)
			index[it.Word] = i
			grouped = append(grouped, GroupedItem{Word: it.Word, Synonyms: []string{}})
		}
		grouped[i].Synonyms = append(grouped[i].Synonyms, it.Synonym)
	}

	for i := range grouped {
		grouped[i].Synonyms = domain.DedupeSynonyms(grouped[i].Synonyms)
	}
	return grouped
}
