package club

import "fmt"

// Club is a real football club players belong to.
type Club struct {
	ID    int64
	Name  string
	Short string
}

func (c Club) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("club id must be greater than zero")
	}
	if c.Name == "" {
		return fmt.Errorf("club name is required")
	}

	return nil
}
