package reconcile

import "fmt"

// PromotionMessage returns the short explanation shown for a promoted node:
//
//	Version requested: '1.0'. Version resolved: '2.0'.
//
// It reports false for nodes that are not promoted.
func PromotionMessage(n *Node) (string, bool) {
	if n == nil || !n.IsPromoted() {
		return "", false
	}
	requested, ok := n.DeclaredVersion()
	if !ok {
		requested = n.coordinate.Version
	}
	resolved, _ := n.ResolvedVersion()
	return fmt.Sprintf("Version requested: '%s'. Version resolved: '%s'.", requested, resolved), true
}
