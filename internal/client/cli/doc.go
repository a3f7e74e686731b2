// Package cli implements the todoctl command tree.
//
// Commands:
//
//	login [email]                         sign in, prompting for the password
//	logout                                forget the saved session
//	whoami                                show the signed-in profile
//	profile set [--name --email --image --password]
//	account delete                        delete the account, prompting for the password
//	avatar <image-file>                   upload a profile picture
//	categories list|add <name> <slug>|rm <id>
//	categories show <id-or-slug>
//	categories edit <id> <name> <slug>
//	todos list [--category id-or-slug]
//	todos add <title> [--category id]...
//	todos edit <id> <title> [--category id]...
//	todos done|undo|rm <id>
//
// Every command except login and logout needs a saved session. Tokens
// rotated by the client during a command are written back to the session
// file.
package cli
