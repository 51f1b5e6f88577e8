package figma

// keptKeys is the whitelist of node properties forwarded to generation. The
// raw API document carries far more than the model needs, and token budgets
// are finite.
var keptKeys = map[string]struct{}{
	"id":                     {},
	"name":                   {},
	"type":                   {},
	"children":               {},
	"characters":             {},
	"style":                  {},
	"fills":                  {},
	"strokes":                {},
	"strokeWeight":           {},
	"strokeAlign":            {},
	"cornerRadius":           {},
	"rectangleCornerRadii":   {},
	"opacity":                {},
	"effects":                {},
	"blendMode":              {},
	"backgroundColor":        {},
	"absoluteBoundingBox":    {},
	"layoutMode":             {},
	"layoutWrap":             {},
	"layoutGrow":             {},
	"layoutAlign":            {},
	"layoutPositioning":      {},
	"itemSpacing":            {},
	"primaryAxisAlignItems":  {},
	"counterAxisAlignItems":  {},
	"primaryAxisSizingMode":  {},
	"counterAxisSizingMode":  {},
	"paddingLeft":            {},
	"paddingRight":           {},
	"paddingTop":             {},
	"paddingBottom":          {},
	"constraints":            {},
	"clipsContent":           {},
	"layoutSizingHorizontal": {},
	"layoutSizingVertical":   {},
	"fontName":               {},
	"fontWeight":             {},
	"fontSize":               {},
	"textAlignHorizontal":    {},
	"textAlignVertical":      {},
	"letterSpacing":          {},
	"lineHeight":             {},
	"textCase":               {},
	"textDecoration":         {},
}

const maxPruneDepth = 24

// PruneNode copies a node document keeping only whitelisted keys, recursing
// through children. Subtrees below the depth cap are dropped outright.
func PruneNode(node map[string]any) map[string]any {
	return pruneAt(node, 0)
}

func pruneAt(node map[string]any, depth int) map[string]any {
	if node == nil || depth > maxPruneDepth {
		return nil
	}
	out := make(map[string]any, len(node))
	for k, v := range node {
		if _, keep := keptKeys[k]; !keep {
			continue
		}
		if k == "children" {
			kids, ok := v.([]any)
			if !ok {
				continue
			}
			pruned := make([]any, 0, len(kids))
			for _, kid := range kids {
				if m, ok := kid.(map[string]any); ok {
					if p := pruneAt(m, depth+1); p != nil {
						pruned = append(pruned, p)
					}
				}
			}
			if len(pruned) > 0 {
				out[k] = pruned
			}
			continue
		}
		out[k] = v
	}
	return out
}
