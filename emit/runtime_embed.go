package emit

import _ "embed"

// runtimeTemplate is a byte-for-byte copy of the yunolexrt package
// source, the "template file shipped alongside the generator" that
// every emitted lexer starts with. Keeping it as an embed of the real,
// compiled, tested package source (rather than a separate text
// template) means there is exactly one copy of the runtime contract
// to keep correct.
//
//go:embed yunolexrt/runtime.go
var runtimeTemplate string
