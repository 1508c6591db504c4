package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

var (
	ErrSourceMissing   = errors.New("account source is missing")
	ErrSourceMalformed = errors.New("account source is malformed")
	ErrNoUsers         = errors.New("user source holds no records")
)

const (
	UsersFile   = "users.json"
	FDPlansFile = "fd_plans.json"
)

var validate = validator.New()

// Load reads the user record and the FD catalog. Only the first user in the
// users file is used. Any error here is fatal for the caller.
func Load(usersPath, plansPath string) (*UserAccount, Catalog, error) {
	var users []UserAccount
	if err := readJSON(usersPath, &users); err != nil {
		return nil, nil, err
	}
	if len(users) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoUsers, usersPath)
	}

	var plans Catalog
	if err := readJSON(plansPath, &plans); err != nil {
		return nil, nil, err
	}

	user := users[0]
	if err := ValidateAccount(&user); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrSourceMalformed, usersPath, err)
	}
	if err := ValidateCatalog(plans); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrSourceMalformed, plansPath, err)
	}

	return &user, plans, nil
}

// LoadDir loads users.json and fd_plans.json from dir.
func LoadDir(dir string) (*UserAccount, Catalog, error) {
	return Load(filepath.Join(dir, UsersFile), filepath.Join(dir, FDPlansFile))
}

func ValidateAccount(u *UserAccount) error {
	if u == nil {
		return errors.New("nil account")
	}
	if err := validate.Struct(u); err != nil {
		return err
	}
	if u.Balance.IsNegative() {
		return fmt.Errorf("balance must be >= 0, got %s", u.Balance)
	}
	for i, tx := range u.Transactions {
		if !tx.Amount.IsPositive() {
			return fmt.Errorf("transaction %d: amount must be > 0, got %s", i, tx.Amount)
		}
	}
	return nil
}

func ValidateCatalog(plans Catalog) error {
	for i := range plans {
		p := plans[i]
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("plan %d: %w", i, err)
		}
		if _, err := ParseRate(p.Rate); err != nil {
			return fmt.Errorf("plan %d: %w", i, err)
		}
		if p.MinAmount.IsNegative() {
			return fmt.Errorf("plan %d: min_amount must be >= 0, got %s", i, p.MinAmount)
		}
	}
	return nil
}

func readJSON(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceMalformed, path, err)
	}
	return nil
}
