// Package media fronts the LiveKit media server: room creation through the
// RoomService API and access-token signing with the server credentials.
//
// # What this package must NOT do
//
//   - It must not generate room names or participant identities; callers
//     own identifier policy.
//   - It must not retry failed room creation.
//   - It must not persist or log signed tokens.
package media
