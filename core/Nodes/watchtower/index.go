package watchtower

import Nodes "capkernel/core/Nodes"

// WatchtowerNodeInterface extends NodeInterface with monitoring capabilities.
type WatchtowerNodeInterface interface {
	Nodes.NodeInterface
	Start()
	Stop() error
	Alerts() <-chan string
}
