// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved,
// suggestions and an optional catalog Id. The catalog holds Markdown guidance
// for each class of packaging failure, rendered for the terminal with glamour.
package issue
