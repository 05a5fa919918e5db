// Package category defines the five job-application stages an inbox message can be
// classified into, the mailbox label each stage maps to, and the parser that turns a
// free-text oracle reply into one of them.
//
// The parser never fails: a reply that matches no rule falls back to NotSure, so every
// classified message ends up with exactly one label.
package category
