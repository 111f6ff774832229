package state

import (
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/textfilter"
)

// BaseName strips a leading quality grade ("Thiên Phẩm ") from an item name.
func BaseName(name string) string {
	for q := 1; q <= len(QualityLabels); q++ {
		prefix := QualityLabels[q] + " "
		if strings.HasPrefix(name, prefix) {
			return strings.TrimSpace(name[len(prefix):])
		}
	}
	return name
}

// DisplayName prefixes an item name with its quality grade unless the item is a quest
// item or the name already carries the grade.
func DisplayName(name string, quality int, kind ItemKind) string {
	label, ok := QualityLabels[quality]
	if !ok || kind == ItemQuest || strings.HasPrefix(name, label) {
		return name
	}
	return label + " " + name
}

// Remember records item in the knowledge base under its base name. Items already known
// under the same base name (ignoring case) are left unchanged. The catalog stays sorted.
func (kb *KnowledgeBase) Remember(item Item) bool {
	base := BaseName(item.Name)
	for _, known := range kb.Items {
		if textfilter.EqualFold(known.Name, base) {
			return false
		}
	}
	entry := item.Clone()
	entry.Name = base
	entry.Quantity = 1
	kb.Items = append(kb.Items, entry)
	textfilter.SortByName(kb.Items, func(it Item) string { return it.Name })
	return true
}

// Lookup returns the catalog entry for name, matching by base name.
func (kb *KnowledgeBase) Lookup(name string) (Item, bool) {
	base := BaseName(name)
	for _, known := range kb.Items {
		if textfilter.EqualFold(known.Name, base) {
			return known, true
		}
	}
	return Item{}, false
}
