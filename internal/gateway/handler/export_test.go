package handler

// Aliases so external tests can exercise the websocket message types.
type (
	PreviewWSInbound  = previewWSInbound
	PreviewWSOutbound = previewWSOutbound
)
