package datasets

import (
	"fmt"

	"github.com/JonMunkholm/datatable/internal/core"
)

func init() {
	core.Register(core.Dataset{
		Info: core.DatasetInfo{
			Key:         "departments",
			Label:       "Departments",
			Description: "Department salary totals by month",
		},
		ColumnSets: columnSets(departmentHeaders),
		Sample:     sample("departments.json"),
	})
}

// DepartmentIDs are the values of the department select filter.
var DepartmentIDs = []string{"A", "B", "C", "D", "E", "F"}

func departmentHeaders(months []int) []core.ColumnHeader {
	idItems := make([]core.FilterItem, len(DepartmentIDs))
	for i, id := range DepartmentIDs {
		idItems[i] = core.FilterItem{Text: id, Value: id}
	}

	headers := []core.ColumnHeader{
		{
			Text:      "ID",
			Value:     "id",
			Width:     "80px",
			Filter:    core.SelectFilter(idItems, true),
			Formatter: core.PlainFormatter,
		},
		text("Department", "name", "220px"),
		{
			Text:      "Total Salary",
			Value:     "totalSalary",
			Width:     "160px",
			Filter:    core.MoneyFilter(),
			Formatter: core.CurrencyFormatter,
			GetValue:  totalSalary,
		},
	}

	for _, i := range months {
		path := core.ParsePath(fmt.Sprintf("salaries[%d].amount", i))
		headers = append(headers, core.ColumnHeader{
			Text:      Months[i] + " Salary",
			Value:     fmt.Sprintf("salaries[%d].amount", i),
			Width:     "140px",
			Filter:    core.MoneyFilter(),
			Formatter: core.CurrencyFormatter,
			GetValue: func(row core.Row, _ *core.ColumnHeader) any {
				v, _ := core.Lookup(row, path)
				return v
			},
		})
	}
	return headers
}

// totalSalary sums the numeric salary amounts of a department row. Entries
// that are not numbers are skipped.
func totalSalary(row core.Row, _ *core.ColumnHeader) any {
	salaries, ok := core.Lookup(row, core.Path{"salaries"})
	if !ok {
		return 0.0
	}
	list, ok := salaries.([]any)
	if !ok {
		return 0.0
	}

	var sum float64
	for i := range list {
		amount, ok := core.Lookup(list[i], core.Path{"amount"})
		if !ok {
			continue
		}
		if n, ok := core.ToNumber(amount); ok {
			sum += n
		}
	}
	return sum
}
