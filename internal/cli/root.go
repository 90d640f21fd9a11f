package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.user.UserName)
}

// Root runs the interactive command loop until EOF or an exit command.
// All reads go through a.reader so prompts inside commands see the same
// buffered stdin.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to ChargeKeeper CLI (type 'help' for commands)")

	for {
		fmt.Printf("ck %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, add, edit, delete, on, off, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "l", "list":
			a.list(ctx)
		case "add":
			a.add(ctx)
		case "edit":
			a.edit(ctx)
		case "delete":
			a.delete(ctx)
		case "on":
			a.setActive(ctx, true)
		case "off":
			a.setActive(ctx, false)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
