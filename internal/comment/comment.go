// Package comment builds the Markdown comment bodies the action posts.
package comment

import "fmt"

// Build constructs the greeting comment for a newly opened pull request. It
// is a pure function: same inputs produce the same body, and no input is
// rejected. The title is included verbatim; escaping or sanitizing it here
// would mangle legitimate Markdown in PR titles, and the hosting platform
// renders comment bodies in a sandbox anyway.
func Build(number int, author string, title string) string {
	return fmt.Sprintf(`Hello @%s, thanks for opening PR #%d!

> %s

Status: Ready for review

_Posted by GitHub Action Bot_
`, author, number, title)
}
