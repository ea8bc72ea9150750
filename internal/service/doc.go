// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. UserService:
//   - Signup hashes the password and creates the user inside a transaction
//   - Login checks credentials without revealing which part was wrong
//
// 2. TaskService:
//   - Every operation is scoped to the authenticated caller's user ID
//   - Raw request values (status, priority, due date, sort) are parsed here
//     so the store only ever sees typed, allow-listed values
//   - Read-modify-write operations lock the row in a transaction
//
// 3. Error Handling:
//   - Expected conditions (validation, not found, conflicts) pass through as
//     sentinel errors for the API layer to map to status codes
//   - Unexpected failures are wrapped in TaskServiceError with the operation name
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
