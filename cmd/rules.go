/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tschaefer/flowconsole/internal/api"
	"github.com/tschaefer/flowconsole/internal/settarget"
	"github.com/tschaefer/flowconsole/internal/variants"
	"github.com/tschaefer/flowconsole/internal/view"
)

type ruleOptions struct {
	variants    []int
	setID       string
	newSet      string
	interactive bool
}

var addOptions = ruleOptions{}

const createOption = "+ create new set"

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Promote observed values to backend rules",
}

var rulesVariantsCmd = &cobra.Command{
	Use:   "variants <domain|address>",
	Short: "List rule candidates for an observed value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		candidates := variants.For(args[0])
		if len(candidates) == 0 {
			cobra.CheckErr(fmt.Sprintf("no rule candidates for %q", args[0]))
		}
		table, err := view.Variants(candidates)
		cobra.CheckErr(err)
		fmt.Println(table)
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <domain|address>",
	Short: "Add a rule for an observed value to a configuration set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		l, closeLog := newLogger()
		defer closeLog()
		slog.SetDefault(l.Logger)

		client := newClient()
		ctx := commandContext(cmd)

		candidates := variants.For(args[0])
		if addOptions.interactive {
			exitOnAPIError(addInteractive(ctx, client, ptermPrompter{}, args[0], candidates))
			return
		}

		rule, err := buildRule(args[0], candidates, addOptions.variants)
		cobra.CheckErr(err)

		setID, newName, err := resolveTarget(addOptions.setID, addOptions.newSet)
		cobra.CheckErr(err)

		id, err := client.Promote(ctx, setID, newName, rule)
		exitOnAPIError(err)
		pterm.Success.Printfln("Rule added to set %s.", id)
	},
}

func init() {
	rulesCmd.AddCommand(rulesVariantsCmd)
	rulesCmd.AddCommand(rulesAddCmd)

	rulesVariantsCmd.CompletionOptions.SetDefaultShellCompDirective(cobra.ShellCompDirectiveNoFileComp)
	rulesAddCmd.CompletionOptions.SetDefaultShellCompDirective(cobra.ShellCompDirectiveNoFileComp)

	rulesAddCmd.Flags().IntSliceVar(&addOptions.variants, "variant", []int{1}, "Candidate number to submit (repeatable for address prefixes)")
	rulesAddCmd.Flags().StringVar(&addOptions.setID, "set", "", fmt.Sprintf("Target set id (defaults to %q)", settarget.DefaultSetID))
	rulesAddCmd.Flags().StringVar(&addOptions.newSet, "new-set", "", "Create a set with this name and add the rule to it")
	rulesAddCmd.Flags().BoolVarP(&addOptions.interactive, "interactive", "i", false, "Choose candidate and set interactively")
	rulesAddCmd.MarkFlagsMutuallyExclusive("set", "new-set")
	rulesAddCmd.MarkFlagsMutuallyExclusive("interactive", "set")
	rulesAddCmd.MarkFlagsMutuallyExclusive("interactive", "new-set")
}

// buildRule turns the picked candidates (1-based) into a rule. A domain rule
// takes exactly one candidate, an address rule one or more prefixes.
func buildRule(value string, candidates []string, picks []int) (api.Rule, error) {
	if len(candidates) == 0 {
		return api.Rule{}, fmt.Errorf("no rule candidates for %q", value)
	}
	if len(picks) == 0 {
		picks = []int{1}
	}

	chosen := make([]string, 0, len(picks))
	for _, p := range picks {
		if p < 1 || p > len(candidates) {
			return api.Rule{}, fmt.Errorf("variant %d out of range 1-%d", p, len(candidates))
		}
		if c := candidates[p-1]; !slices.Contains(chosen, c) {
			chosen = append(chosen, c)
		}
	}

	if variants.IsAddress(value) {
		return api.Rule{Prefixes: chosen}, nil
	}
	if len(chosen) > 1 {
		return api.Rule{}, errors.New("a domain rule takes exactly one variant")
	}
	return api.Rule{Domain: chosen[0]}, nil
}

// resolveTarget maps the set flags to the submitted target.
func resolveTarget(setID, newSet string) (string, string, error) {
	r := settarget.New()
	switch {
	case newSet != "":
		r.Select(settarget.CreateSetID)
		if err := r.TypeName(newSet); err != nil {
			return "", "", err
		}
		if err := r.Confirm(); err != nil {
			return "", "", err
		}
	case setID != "":
		r.Select(setID)
	default:
		r.Select(settarget.DefaultSetID)
	}

	id, name, _ := r.Target()
	return id, name, nil
}

// prompter asks the user. The interactive dialog only talks to it.
type prompter interface {
	Select(label string, options []string) (string, error)
	Text(label string) (string, error)
	Confirm(label string) (bool, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Select(label string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.WithOptions(options).WithDefaultText(label).Show()
}

func (ptermPrompter) Text(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(label)
}

func (ptermPrompter) Confirm(label string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.Show(label)
}

// addInteractive walks through candidate and set selection. A failed
// submission keeps the selection so it can be retried.
func addInteractive(ctx context.Context, client *api.Client, p prompter, value string, candidates []string) error {
	if len(candidates) == 0 {
		return fmt.Errorf("no rule candidates for %q", value)
	}

	candidate, err := p.Select("Rule candidate", candidates)
	if err != nil {
		return err
	}
	rule, err := buildRule(value, candidates, []int{slices.Index(candidates, candidate) + 1})
	if err != nil {
		return err
	}

	sets, err := client.Sets(ctx)
	if err != nil {
		return err
	}
	options := make([]string, 0, len(sets)+1)
	ids := make(map[string]string, len(sets)+1)
	for _, s := range sets {
		label := fmt.Sprintf("%s (%s)", s.Name, s.ID)
		options = append(options, label)
		ids[label] = s.ID
	}
	options = append(options, createOption)
	ids[createOption] = settarget.CreateSetID

	r := settarget.New()
	if err := chooseSet(p, r, options, ids); err != nil {
		return err
	}

	for {
		setID, newName, ok := r.Target()
		if !ok {
			return errors.New("no target set selected")
		}

		id, err := client.Promote(ctx, setID, newName, rule)
		if err == nil {
			pterm.Success.Printfln("Rule added to set %s.", id)
			return nil
		}
		if setID == settarget.CreateSetID && id != "" {
			// the set was created, a retry only inserts the rule
			r.Select(id)
		}
		pterm.Error.Println(api.Message(err))

		retry, cerr := p.Confirm("Retry?")
		if cerr != nil || !retry {
			return err
		}
	}
}

// chooseSet returns once the user picked an existing set or confirmed a
// new set name. A blank name keeps name entry open until the user either
// types a name or cancels back to the set list.
func chooseSet(p prompter, r *settarget.Resolver, options []string, ids map[string]string) error {
	for {
		if r.Phase() != settarget.Creating {
			choice, err := p.Select("Target set", options)
			if err != nil {
				return err
			}
			id, ok := ids[choice]
			if !ok {
				return fmt.Errorf("unknown set choice: %q", choice)
			}
			r.Select(id)
			if r.Phase() != settarget.Creating {
				return nil
			}
		}

		name, err := p.Text("New set name")
		if err != nil {
			return err
		}
		if err := r.TypeName(name); err != nil {
			return err
		}
		err = r.Confirm()
		if err == nil {
			return nil
		}
		if !errors.Is(err, settarget.ErrEmptyName) {
			return err
		}

		pterm.Warning.Println(err)
		cancel, err := p.Confirm("Cancel creating a new set?")
		if err != nil {
			return err
		}
		if cancel {
			r.Cancel()
		}
	}
}
