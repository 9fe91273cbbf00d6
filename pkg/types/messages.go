package types

// Websocket protocol for GET /ws?code=<lobby code>.
//
// Client -> Server
// SetReady:
//   player_id: string
//   ready: boolean
//
// SetCapacity:
//   capacity: number // clamped to 6..10, never below the roster size
//
// Start: {}
//
// Leave:
//   player_id: string

// Server -> Client
// StateSnapshot:
//   version: number
//   state:
//     code: string
//     title: string
//     capacity: number
//     players: { id, name, avatar, ready }[]
//     ready_count: number
//     seconds_remaining: number
//     countdown: "m:ss"
//     expired: boolean // informational, the lobby stays open
//     started: boolean
//     can_start: boolean
//     slots: { index, player?, label }[] // label: "Ready" | "Waiting..." | "Waiting for player..."
//
// Error:
//   error: string
//
// The socket closes once the lobby is started or abandoned.
