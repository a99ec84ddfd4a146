package extractor

import (
	"sort"
	"strconv"
	"strings"

	"go.viam.com/scenedata/simulator"
)

// backgroundLabel is a reserved class name pinned to index 0 of the class name
// list even when no scene annotates it.
const backgroundLabel = "background"

// buildLabelMap walks a scene's semantic object list and maps each annotated
// object's numeric instance id (the trailing "_<n>" of its ID string) to its
// category name. Objects without a category, or without a parseable trailing
// id, are skipped. A nil scene yields an empty map.
func buildLabelMap(scene *simulator.SemanticScene) map[int]string {
	labelMap := map[int]string{}
	if scene == nil {
		return labelMap
	}
	for _, obj := range scene.Objects {
		if obj == nil || obj.Category == nil {
			continue
		}
		name := obj.Category.Name()
		if name == "" {
			continue
		}
		parts := strings.Split(obj.ID, "_")
		id, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			continue
		}
		labelMap[id] = name
	}
	return labelMap
}

// classNames returns the distinct names in the label map, sorted, with the
// background label forced to the front.
func classNames(labelMap map[int]string) []string {
	seen := map[string]bool{backgroundLabel: true}
	var names []string
	for _, name := range labelMap {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{backgroundLabel}, names...)
}
