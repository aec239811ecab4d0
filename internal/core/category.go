package core

// Category is a type-tagged category. The zero value means "no category";
// every other value comes from LookupCategory or the category lists.
type Category struct {
	typ   Type
	slug  string
	label string
}

var (
	incomeCategories = []Category{
		{Income, "salary", "Salary"},
		{Income, "freelance", "Freelance"},
		{Income, "investment", "Investment"},
		{Income, "other-income", "Other Income"},
	}
	expenseCategories = []Category{
		{Expense, "food", "Food & Dining"},
		{Expense, "housing", "Housing"},
		{Expense, "transportation", "Transportation"},
		{Expense, "utilities", "Utilities"},
		{Expense, "healthcare", "Healthcare"},
		{Expense, "entertainment", "Entertainment"},
		{Expense, "shopping", "Shopping"},
		{Expense, "other-expense", "Other Expense"},
	}
	bySlug = indexCategories()
)

func indexCategories() map[string]Category {
	m := make(map[string]Category, len(incomeCategories)+len(expenseCategories))
	for _, c := range incomeCategories {
		m[c.slug] = c
	}
	for _, c := range expenseCategories {
		m[c.slug] = c
	}
	return m
}

// Categories returns the category list of t in display order.
func Categories(t Type) []Category {
	var src []Category
	switch t {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	}
	return append([]Category(nil), src...)
}

// LookupCategory returns the category slug of type t. A slug that exists
// under the other type is rejected.
func LookupCategory(t Type, slug string) (Category, error) {
	c, ok := bySlug[slug]
	if !ok || c.typ != t {
		return Category{}, ErrInvalidCategory
	}
	return c, nil
}

// CategoryBySlug finds a category without knowing its type. Slugs are
// unique across both lists.
func CategoryBySlug(slug string) (Category, bool) {
	c, ok := bySlug[slug]
	return c, ok
}

func (c Category) Type() Type     { return c.typ }
func (c Category) Slug() string   { return c.slug }
func (c Category) IsZero() bool   { return c.slug == "" }
func (c Category) String() string { return c.slug }

// Label is the human readable name. Unknown slugs fall back to the slug.
func (c Category) Label() string {
	if c.label == "" {
		return c.slug
	}
	return c.label
}

// CategoryLabel resolves a slug to its label, falling back to the slug.
func CategoryLabel(slug string) string {
	if c, ok := bySlug[slug]; ok {
		return c.label
	}
	return slug
}
