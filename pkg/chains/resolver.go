package chains

import (
	"fmt"

	"github.com/sigweihq/wcsign/pkg/caip"
)

// Namespace is one entry of a WalletConnect session proposal, in the shape
// consumed by the sign client: methods, CAIP-2 chains, and events.
type Namespace struct {
	Methods []string `json:"methods"`
	Chains  []string `json:"chains"`
	Events  []string `json:"events"`
}

// ProposalNamespaces is the { requiredNamespaces, optionalNamespaces } pair
// of a session proposal, keyed by CAIP-2 namespace. Built fresh for every
// connection attempt and discarded once the proposal is sent.
type ProposalNamespaces struct {
	Required map[string]Namespace `json:"requiredNamespaces"`
	Optional map[string]Namespace `json:"optionalNamespaces"`
}

// ResolveNamespaces partitions chain ids by namespace and assembles the
// required/optional namespace maps for a session proposal from each
// namespace's registered capabilities.
//
// Chain ids are deduplicated, preserving first-seen order within each
// namespace. A chain id whose namespace has no registered adapter is a
// configuration error and fails the whole resolution: an unsupported
// namespace cannot be connected, and silently dropping it would produce a
// proposal the caller did not ask for.
func ResolveNamespaces(registry *Registry, chainIDs []caip.ChainID) (*ProposalNamespaces, error) {
	if registry == nil {
		return nil, fmt.Errorf("namespace registry not initialized")
	}
	if len(chainIDs) == 0 {
		return nil, fmt.Errorf("no chains selected for session proposal")
	}

	// Partition by namespace, first-seen order, deduplicated.
	order := make([]string, 0, len(chainIDs))
	byNamespace := make(map[string][]string)
	seen := make(map[caip.ChainID]bool)
	for _, id := range chainIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := byNamespace[id.Namespace]; !ok {
			order = append(order, id.Namespace)
		}
		byNamespace[id.Namespace] = append(byNamespace[id.Namespace], id.String())
	}

	proposal := &ProposalNamespaces{
		Required: make(map[string]Namespace, len(order)),
		Optional: make(map[string]Namespace, len(order)),
	}

	for _, namespace := range order {
		adapter, err := registry.Get(namespace)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve session namespaces: %w", err)
		}

		caps := adapter.Capabilities()
		chains := byNamespace[namespace]

		proposal.Required[namespace] = Namespace{
			Methods: append([]string(nil), caps.RequiredMethods...),
			Chains:  append([]string(nil), chains...),
			Events:  append([]string(nil), caps.Events...),
		}
		if len(caps.OptionalMethods) > 0 {
			proposal.Optional[namespace] = Namespace{
				Methods: append([]string(nil), caps.OptionalMethods...),
				Chains:  append([]string(nil), chains...),
				Events:  append([]string(nil), caps.Events...),
			}
		}
	}

	return proposal, nil
}
