package guard

import (
	"errors"
	"testing"
)

func TestEnsureReadOnlyAccepts(t *testing.T) {
	accepted := []string{
		"SELECT * FROM orders",
		"select id from customers",
		"  \n\tSELECT 1",
		"SeLeCt total FROM orders WHERE id = 1",
		"select * from orders; drop table orders", // prefix check only
	}
	for _, sqlText := range accepted {
		if err := EnsureReadOnly(sqlText); err != nil {
			t.Fatalf("EnsureReadOnly(%q) error = %v, want nil", sqlText, err)
		}
	}
}

func TestEnsureReadOnlyRejects(t *testing.T) {
	rejected := []string{
		"DELETE FROM orders",
		"DROP TABLE orders",
		"UPDATE orders SET total = 0",
		"INSERT INTO orders VALUES (1)",
		"WITH recent AS (SELECT * FROM orders) SELECT * FROM recent",
		"-- comment\nSELECT * FROM orders",
		"/* hidden */ SELECT * FROM orders",
		"TRUNCATE orders",
		"",
		"   ",
	}
	for _, sqlText := range rejected {
		err := EnsureReadOnly(sqlText)
		if !errors.Is(err, ErrNotSelect) {
			t.Fatalf("EnsureReadOnly(%q) error = %v, want ErrNotSelect", sqlText, err)
		}
	}
}

func TestErrNotSelectMessage(t *testing.T) {
	if got := ErrNotSelect.Error(); got != "Only SELECT statements are allowed" {
		t.Fatalf("ErrNotSelect = %q", got)
	}
}
