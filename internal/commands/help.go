package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show comprehensive help for opus",
		Long:  `Display detailed help for all opus commands, or for one command.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				if target, _, err := cmd.Root().Find(args); err == nil && target != cmd.Root() {
					_ = target.Help()
					return
				}
			}
			showCustomHelp(cmd.OutOrStdout())
		},
	}
}

func showCustomHelp(out io.Writer) {
	fmt.Fprint(out, `
 ██████╗ ██████╗ ██╗   ██╗███████╗
██╔═══██╗██╔══██╗██║   ██║██╔════╝
██║   ██║██████╔╝██║   ██║███████╗
██║   ██║██╔═══╝ ██║   ██║╚════██║
╚██████╔╝██║     ╚██████╔╝███████║
 ╚═════╝ ╚═╝      ╚═════╝ ╚══════╝

opus - spaces, projects, epics and tasks from the terminal

SETUP:

  API_KEY (or api.key in ~/.opus/opus.yaml) is required for every command
  that talks to the service. A .env file in the working directory is read.

  companies               List companies; pick one with --company <id|slug>
  sync                    Load the company into the local cache

BROWSE:

  ls [kind]               List spaces|projects|epics|tasks|labels|users
    --space/--project/--epic   Scope the listing
    --status              todo|doing|done
    --assignee            User id
    --offline             Use the cache, don't sync
    --json                JSON output

  search <query>          Ranked search over tasks (exact > prefix > suffix > contains)
  board                   Interactive kanban (--project or --epic)
    ←/→ h/l  column · ↑/↓ k/j  card · H/L move card · d done · / search · q quit
  badges [user-id]        Earned badges

TASKS:

  task add <title>        Create a task with smart parsing (--epic required)
    Smart syntax:
      #label1,label2  Labels by name
      @user           Assignee id or email
      +priority       low|medium|high|urgent or 1-4
      !status         todo|doing|done
      due:3days       today, tomorrow, dd/mm/yyyy, 3d, 24h, 2w

    Example:
      opus task add "Fix login bug #auth +high due:2d" --epic e1

  task show <id>          Fetch and show a task
  task edit <id>          Change fields (--title, --status, --labels, --unassign...)
  task move <id> <status> Move between columns
  task done <id>          Mark as completed
  task rm <id>            Delete

STRUCTURE:

  space create|update|delete
  project create|update|archive|unarchive|delete
  epic create|update|delete
  label create
  user create|show|update|delete

  version                 Print version
  help [command]          Show this help, or help for one command

`)
}
