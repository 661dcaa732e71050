package ports

import "gridimport/domain/imports"

// ImportEventPublisher receives import lifecycle events. Publish must not block.
type ImportEventPublisher interface {
	Publish(event imports.Event)
}
