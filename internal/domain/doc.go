// Package domain contains the core business entities of the task tracker
// (users with roles, tasks with status and priority) together with their
// validation rules and the sentinel errors callers branch on.
package domain
