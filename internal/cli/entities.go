package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Senhordim/boilerplate/internal/adapters/entityfile"
	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// entitySource holds the flags that select the entities a command acts on:
// either a description file or a single entity built from --app and --fields.
type entitySource struct {
	file   string
	app    string
	fields string
}

func (s *entitySource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.file, "file", "f", "", "Entity description file (.yaml, .yml or .cue)")
	cmd.Flags().StringVarP(&s.app, "app", "a", "", "App name (default app for description files)")
	cmd.Flags().StringVar(&s.fields, "fields", "", `Fields of a single entity, e.g. "total:float,issued_on:date?,customer:ref(Customer)"`)
}

func (s *entitySource) load(ctx context.Context, args []string) ([]scaffold.Entity, error) {
	if s.file != "" {
		if len(args) > 0 || s.fields != "" {
			return nil, fmt.Errorf("--file cannot be combined with an entity name or --fields")
		}
		return entityfile.NewLoader(s.app).Load(ctx, s.file)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("an entity name or --file is required")
	}
	if s.app == "" {
		return nil, fmt.Errorf("--app is required when naming an entity")
	}
	entity, err := scaffold.BuildEntity(s.app, args[0], s.fields)
	if err != nil {
		return nil, err
	}
	return []scaffold.Entity{*entity}, nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
