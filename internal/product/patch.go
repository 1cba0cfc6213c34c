package product

import "strconv"

// Patch is the subset of fields a user filled in on the update form.
// Nil fields are left untouched by Apply.
type Patch struct {
	Name        *string
	Price       *float64
	Description *string
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil
}

// Apply merges the patch on top of base. Patch fields take precedence; every other
// field, including unknown server fields, keeps its existing value.
func (p Patch) Apply(base Product) Product {
	merged := base.Clone()
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.Price != nil {
		merged.Price = PriceOf(*p.Price)
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	return merged
}

// Fields returns the patch as a Product carrying only the supplied values, the shape
// the validator checks.
func (p Patch) Fields() Product {
	var fields Product
	if p.Name != nil {
		fields.Name = *p.Name
	}
	if p.Price != nil {
		fields.Price = PriceOf(*p.Price)
	}
	if p.Description != nil {
		fields.Description = *p.Description
	}
	return fields
}

// NextID returns max(numeric ids)+1 as a string, or "1" when no id is numeric.
// Ids that do not parse as integers are ignored.
func NextID(products []Product) string {
	var maxID int64
	for _, p := range products {
		id, err := strconv.ParseInt(p.ID, 10, 64)
		if err != nil {
			continue
		}
		if id > maxID {
			maxID = id
		}
	}
	return strconv.FormatInt(maxID+1, 10)
}
