package model

// PlayerName is a registered display name. Matches, stats, and the lobby all
// refer to players by name rather than by connection.
type PlayerName string

// ConnectionID identifies one live transport connection. Connections are
// ephemeral; a name can outlive its connection by re-registering, a
// connection ID cannot.
type ConnectionID string
