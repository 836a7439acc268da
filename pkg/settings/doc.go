// Package settings loads template settings documents and turns them into
// the bindings used for rendering.
//
// A settings document is an ordered mapping of section name to an ordered
// mapping of parameter name to a default value. Two section names are
// reserved:
//
//   - template_info holds the template descriptor (name, version, path).
//     The path is resolved against the directory of the settings document.
//   - functions is where helper functions are injected for rendering. It is
//     never read from nor written to disk.
//
// Every other section is a user-editable parameter group. The Resolver
// walks those groups in document order, asks a PromptPort for each value
// and finally persists the resolved values as the project settings
// artifact committed to the target repository.
package settings
