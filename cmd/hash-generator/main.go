// Command hash-generator prints bcrypt digests in the format stored in
// users.password_hash. It is used to seed accounts, such as admins, that
// cannot be created through signup.
//
// Usage:
//
//	hash-generator [-cost N] [-email addr -role admin] password...
//
// With -email, an INSERT statement for the users table is printed instead of
// the bare digest.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	fs.SetOutput(out)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	email := fs.String("email", "", "emit an INSERT for this email instead of the bare hash")
	role := fs.String("role", string(domain.RoleStudent), "role of the inserted user")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return fmt.Errorf("at least one password is required")
	}
	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if !domain.Role(*role).IsValid() {
		return domain.ErrInvalidRole
	}
	if *email != "" && fs.NArg() != 1 {
		return fmt.Errorf("-email takes exactly one password")
	}

	hasher := auth.NewBcryptHasher(*cost)
	for _, password := range fs.Args() {
		// The same checks signup applies.
		user, err := domain.NewUser(valueOr(*email, "seed@example.com"), password, "")
		if err != nil {
			return err
		}

		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}

		if *email == "" {
			fmt.Fprintln(out, hash)
			continue
		}
		fmt.Fprintf(out,
			"INSERT INTO users (id, email, password_hash, role, created_at, updated_at) "+
				"VALUES ('%s', '%s', '%s', '%s', NOW(), NOW());\n",
			uuid.New(), user.Email, hash, *role)
	}
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
