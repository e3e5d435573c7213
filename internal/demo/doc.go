// Package demo holds the example contexts and components rendered by the
// safecontext CLI and demo server.
//
// Each Scenario builds its provider tree when rendered, under a fresh vango
// owner, so scenarios never see each other's values.
package demo
