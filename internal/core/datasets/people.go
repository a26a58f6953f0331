package datasets

import (
	"fmt"

	"github.com/JonMunkholm/datatable/internal/core"
)

func init() {
	core.Register(core.Dataset{
		Info: core.DatasetInfo{
			Key:         "people",
			Label:       "People",
			Description: "Staff with pay and monthly expenses",
		},
		ColumnSets: columnSets(peopleHeaders),
		Sample:     sample("people.json"),
	})
}

// PeopleRoles are the values of the role select filter.
var PeopleRoles = []string{"Analyst", "Designer", "Engineer", "Manager", "Support"}

func peopleHeaders(months []int) []core.ColumnHeader {
	roleItems := make([]core.FilterItem, len(PeopleRoles))
	for i, r := range PeopleRoles {
		roleItems[i] = core.FilterItem{Text: r, Value: r}
	}

	headers := []core.ColumnHeader{
		text("ID", "id", "80px"),
		text("Name", "name", "220px"),
		{
			Text:      "Role",
			Value:     "role",
			Width:     "200px",
			Filter:    core.SelectFilter(roleItems, true),
			Formatter: core.PlainFormatter,
		},
		text("Location", "location", "160px"),
		{
			Text:      "Salary",
			Value:     "salary",
			Width:     "140px",
			Filter:    core.MoneyFilter(),
			Formatter: core.CurrencyFormatter,
		},
		money("Deductions", "deductions", "150px"),
		money("Net Pay", "netPay", "140px"),
	}

	for _, i := range months {
		headers = append(headers, core.ColumnHeader{
			Text:      Months[i] + " Exp",
			Value:     fmt.Sprintf("expenses[%d].value", i),
			Width:     "110px",
			Filter:    core.MoneyFilter(),
			Formatter: core.CurrencyFormatter,
		})
	}
	return headers
}
