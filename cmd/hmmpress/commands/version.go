package commands

import (
	"fmt"

	"git.home.luguber.info/inful/hmmpress/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(*Global, *CLI) error {
	fmt.Println(version.String())
	return nil
}
