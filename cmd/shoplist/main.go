// Command shoplist is a small demo client for the SDK: log in, inspect and
// edit lists from the terminal, and watch the background sync do its work.
// Configuration comes from SHOPLIST_* environment variables (see
// internal/config).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	shoplist "github.com/tilbuda/go-shoplist-sdk"
	"github.com/tilbuda/go-shoplist-sdk/models"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var sdk *shoplist.SDK

	root := &cobra.Command{
		Use:           "shoplist",
		Short:         "offline-first shopping list client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			sdk, err = shoplist.New(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.Start(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return sdk.Stop()
		},
	}

	root.AddCommand(
		loginCmd(&sdk),
		listsCmd(&sdk),
		addCmd(&sdk),
		rmCmd(&sdk),
		itemsCmd(&sdk),
		tickCmd(&sdk),
		shareCmd(&sdk),
		syncCmd(&sdk),
		watchCmd(&sdk),
	)
	return root
}

func loginCmd(sdk **shoplist.SDK) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "log in and adopt locally created lists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := (*sdk).Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
}

func listsCmd(sdk **shoplist.SDK) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "print all lists in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := (*sdk).Lists(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range lists {
				fmt.Printf("%s  %-24s  %s  %s\n", l.ID, l.Name, l.State, l.Modified.Format(time.DateTime))
			}
			return nil
		},
	}
}

func addCmd(sdk **shoplist.SDK) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> | add --list <list-id> <description> [count]",
		Short: "add a list, or an item to a list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, _ := cmd.Flags().GetString("list")
			if listID == "" {
				list, err := (*sdk).AddList(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(list.ID)
				return nil
			}

			count := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("count must be a number: %w", err)
				}
				count = n
			}
			item, err := (*sdk).AddItem(cmd.Context(), listID, args[0], count)
			if err != nil {
				return err
			}
			fmt.Println(item.ID)
			return nil
		},
	}
	cmd.Flags().String("list", "", "target list id (adds an item instead of a list)")
	return cmd
}

func rmCmd(sdk **shoplist.SDK) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "delete a list (or an item with --item)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if item, _ := cmd.Flags().GetBool("item"); item {
				return (*sdk).DeleteItem(cmd.Context(), args[0])
			}
			return (*sdk).DeleteList(cmd.Context(), args[0])
		},
	}
	cmd.Flags().Bool("item", false, "treat the id as an item id")
	return cmd
}

func itemsCmd(sdk **shoplist.SDK) *cobra.Command {
	return &cobra.Command{
		Use:   "items <list-id>",
		Short: "print a list's items in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := (*sdk).Items(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, it := range items {
				mark := " "
				if it.Ticked {
					mark = "x"
				}
				fmt.Printf("[%s] %s  %dx %s\n", mark, it.ID, it.Count, it.Description)
			}
			return nil
		},
	}
}

func tickCmd(sdk **shoplist.SDK) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tick <item-id>",
		Short: "tick an item off (or untick with --off)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, _ := cmd.Flags().GetBool("off")
			return (*sdk).TickItem(cmd.Context(), args[0], !off)
		},
	}
	cmd.Flags().Bool("off", false, "untick instead")
	return cmd
}

func shareCmd(sdk **shoplist.SDK) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <list-id> <email>",
		Short: "share a list with someone by email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			access, _ := cmd.Flags().GetString("access")
			return (*sdk).ShareList(cmd.Context(), args[0], args[1], access)
		},
	}
	cmd.Flags().String("access", "rw", "access level: r or rw")
	return cmd
}

func syncCmd(sdk **shoplist.SDK) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "run one sync round and wait briefly for it to land",
		RunE: func(cmd *cobra.Command, args []string) error {
			(*sdk).SyncNow()
			// One-shot invocation: give the round time to finish before the
			// post-run teardown closes the queue.
			time.Sleep(5 * time.Second)
			return nil
		},
	}
}

func watchCmd(sdk **shoplist.SDK) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "stay running and print changes as sync rounds land",
		RunE: func(cmd *cobra.Command, args []string) error {
			(*sdk).SubscribeLists(printSubscriber{})
			(*sdk).SubscribeItems(printSubscriber{})
			(*sdk).SubscribeFirstSync(func() { fmt.Println("= first sync complete") })

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}
}

type printSubscriber struct{}

func (printSubscriber) ListsChanged(added, deleted, edited []models.List) {
	for _, l := range added {
		fmt.Printf("+ list %s %q\n", l.ID, l.Name)
	}
	for _, l := range deleted {
		fmt.Printf("- list %s %q\n", l.ID, l.Name)
	}
	for _, l := range edited {
		fmt.Printf("~ list %s %q\n", l.ID, l.Name)
	}
}

func (printSubscriber) ItemsChanged(added, deleted, edited []models.Item) {
	for _, it := range added {
		fmt.Printf("+ item %s %q\n", it.ID, it.Description)
	}
	for _, it := range deleted {
		fmt.Printf("- item %s %q\n", it.ID, it.Description)
	}
	for _, it := range edited {
		fmt.Printf("~ item %s %q\n", it.ID, it.Description)
	}
}
