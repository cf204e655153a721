// Package service contains the application use cases. It orchestrates the
// extraction pipeline, the digest ranking engine and the stores defined in
// internal/store to fulfill the API's operations.
//
// Services receive their dependencies through constructor injection and
// depend only on store interfaces, never on a specific database
// implementation. Every operation is scoped to the calling user.
package service
