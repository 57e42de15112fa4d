// Command synonyms imports, exports and serves synonym records.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"os"

	"github.com/heartmarshall/synonym-backend/cmd/synonyms/commands"
)

func main() {
	os.Exit(commands.Execute())
}
