package authority_nodes

import "capkernel/core/Nodes"

// AuthorityNodeInterface extends NodeInterface with authority-specific actions.
type AuthorityNodeInterface interface {
	Nodes.NodeInterface
	PromoteAuthority(addr string) error
}
