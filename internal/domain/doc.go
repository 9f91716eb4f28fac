// Package domain provides the data model shared by every loadout package.
//
// This package contains types and pure functions only. All other internal
// packages import domain; domain imports nothing internal. This keeps the
// model the foundational layer with no circular dependencies.
//
// Key constraints:
//   - A Loadout name matches ^[A-Za-z0-9_-]+$ and its fragment list never
//     holds the same reference twice.
//   - A Fingerprint is computed from composed text only, never from the
//     fragment list, so identical text always means "in sync".
//   - Wall-clock time and the home directory are reached through an
//     Environment, never through package-level calls.
//   - Failures are *Error values carrying an ErrorKind; callers branch on
//     the kind via the Is* helpers.
package domain
