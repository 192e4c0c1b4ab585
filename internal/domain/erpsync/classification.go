package erpsync

// Classification places a remote account type into the local reporting
// hierarchy of class and subclass.
type Classification struct {
	Class    string
	Subclass string
}

// Statement classes
const (
	ClassAssets    = "Assets"
	ClassLiability = "Liability"
	ClassEquity    = "Equity"
	ClassRevenue   = "Revenue"
	ClassExpenses  = "Expenses"
)

// Fallback subclass for account types with no explicit mapping
const SubclassOther = "Other"

// classifications maps every known remote account type code. Unknown codes
// fall back to Assets/Other so a new remote type never blocks a sync.
var classifications = map[string]Classification{
	"Bank":         {ClassAssets, "Cash and Cash Equivalents"},
	"AcctRec":      {ClassAssets, "Trade Receivables"},
	"OthCurrAsset": {ClassAssets, "Other Current Assets"},
	"FixedAsset":   {ClassAssets, "Property, Plant and Equipment"},
	"OthAsset":     {ClassAssets, "Other Non-Current Assets"},

	"AcctPay":      {ClassLiability, "Trade Payables"},
	"CredCard":     {ClassLiability, "Other Current Liabilities"},
	"OthCurrLiab":  {ClassLiability, "Other Current Liabilities"},
	"LongTermLiab": {ClassLiability, "Long-term Borrowings"},

	"Equity": {ClassEquity, "Share Capital"},

	"Income":    {ClassRevenue, "Revenue from Operations"},
	"OthIncome": {ClassRevenue, "Other Income"},

	"COGS":       {ClassExpenses, "Cost of Sales"},
	"Expense":    {ClassExpenses, "Operating Expenses"},
	"OthExpense": {ClassExpenses, "Other Expenses"},
}

// Classify maps a remote account type code to its class and subclass.
// It is total: every input yields a usable classification.
func Classify(typeCode string) Classification {
	if c, ok := classifications[typeCode]; ok {
		return c
	}
	return Classification{ClassAssets, SubclassOther}
}

// KnownAccountTypes returns the account type codes with explicit mappings.
func KnownAccountTypes() []string {
	types := make([]string, 0, len(classifications))
	for code := range classifications {
		types = append(types, code)
	}
	return types
}

// StatementSide distinguishes balance sheet from income statement accounts.
type StatementSide int

const (
	StatementSideUnknown StatementSide = iota
	StatementSideBalanceSheet
	StatementSideIncomeStatement
)

// BalanceSheetTypes lists the account type codes reported on the balance
// sheet, in the remote system's conventional order.
func BalanceSheetTypes() []string {
	return []string{
		"Bank", "AcctRec", "OthCurrAsset", "FixedAsset", "OthAsset",
		"AcctPay", "CredCard", "OthCurrLiab", "LongTermLiab",
		"Equity",
	}
}

// IncomeStatementTypes lists the account type codes reported on the income
// statement.
func IncomeStatementTypes() []string {
	return []string{"Income", "COGS", "Expense", "OthIncome", "OthExpense"}
}

// SideOf reports which statement an account type belongs to.
func SideOf(typeCode string) StatementSide {
	switch Classify(typeCode).Class {
	case ClassRevenue, ClassExpenses:
		return StatementSideIncomeStatement
	case ClassLiability, ClassEquity:
		return StatementSideBalanceSheet
	case ClassAssets:
		if _, known := classifications[typeCode]; known {
			return StatementSideBalanceSheet
		}
		return StatementSideUnknown
	}
	return StatementSideUnknown
}
