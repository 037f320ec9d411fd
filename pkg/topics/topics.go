// Package topics adds file-backed help topics to a cobra command tree:
// `app help <topic>` prints the topic and `app help topics` lists them.
package topics

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dockplate/pkg/errors"
)

// Topic is one help document
type Topic struct {
	Name    string
	Ext     string
	Content string
}

// RenderFunc writes a topic to cmd's output
type RenderFunc func(cmd *cobra.Command, t *Topic) error

// Manager holds the topics found in a filesystem
type Manager struct {
	topics     map[string]*Topic
	extensions []string
}

// Load reads every file of fsys whose extension is in extensions
// (default .md and .txt). Topic names are file names without extension.
func Load(fsys fs.FS, extensions ...string) (*Manager, error) {
	if len(extensions) == 0 {
		extensions = []string{".md", ".txt"}
	}
	m := &Manager{topics: make(map[string]*Topic), extensions: extensions}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !m.supported(path.Ext(p)) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		ext := path.Ext(p)
		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Ext: ext, Content: string(data)}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load help topics")
	}
	return m, nil
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Get returns a topic by name. Flag-style names ("--strict") also match
// "option-strict".
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := m.topics[name]; ok {
		return t, true
	}
	t, ok := m.topics["option-"+name]
	return t, ok
}

// Names returns the topic names in sorted order
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install replaces the help command of root with one that also knows the
// topics, rendering them with render.
func (m *Manager) Install(root *cobra.Command, render RenderFunc) {
	originalHelp := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: "Help provides help for any command or topic.\n\nTo see all available help topics:\n  " +
			root.Name() + " help topics",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			return append(completions, m.Names()...), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				originalHelp(root, nil)
				return nil
			}
			if args[0] == "topics" {
				m.list(cmd, root.Name())
				return nil
			}
			if t, ok := m.Get(args[0]); ok {
				return render(cmd, t)
			}
			target, _, err := root.Find(args)
			if err != nil || target == nil {
				return errors.Newf(errors.ErrNotFound, "unknown help topic %q", args[0]).
					WithDetail("topic", args[0])
			}
			originalHelp(target, nil)
			return nil
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.SetHelpCommand(helpCmd)
}

func (m *Manager) list(cmd *cobra.Command, app string) {
	names := m.Names()
	if len(names) == 0 {
		cmd.Println("No help topics available.")
		return
	}

	var general, options []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, "--"+strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	cmd.Println("Available help topics:")
	if len(general) > 0 {
		cmd.Println("\nGeneral topics:")
		for _, name := range general {
			cmd.Printf("  %s\n", name)
		}
	}
	if len(options) > 0 {
		cmd.Println("\nOption topics:")
		for _, name := range options {
			cmd.Printf("  %s\n", name)
		}
	}
	cmd.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", app)
}
