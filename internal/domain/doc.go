// Package domain contains the core business entities of TaskFlow: meeting
// notes, the action items extracted from them, and the persisted tasks a user
// works through. It is independent of storage, transport and the language
// model providers that produce extracted tasks.
package domain
