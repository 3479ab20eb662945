// Wikistream converts notification filter expressions to HQL, manages user
// exclusion filters and tracks mail delivery batches.
//
// Usage:
//
//	# Convert an expression tree to a parameterized HQL condition
//	wikistream hql filter.yaml
//
//	# Stop notifying a user about an author
//	wikistream filters exclude XWiki.Alice XWiki.Bob
//
//	# Inspect and resend a mail batch
//	wikistream mail status <batch-id>
//	wikistream mail resend <batch-id>
//
//	# Resend failed mails on a schedule
//	wikistream serve --config wikistream.yaml
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/wikistream/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Command output already reports ExitErrors; only surface the rest.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
