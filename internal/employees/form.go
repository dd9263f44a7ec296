// AngelaMos | 2026
// form.go

package employees

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/escalapronta/web/internal/api"
)

// DefaultWorkDays pre-selects Monday through Friday on the create
// form.
var DefaultWorkDays = []int{1, 2, 3, 4, 5}

const (
	DefaultWorkStartTime = "08:00"
	DefaultWorkEndTime   = "17:00"
)

type Form struct {
	Name          string `validate:"required,min=1,max=120"`
	Role          string `validate:"required,min=1,max=80"`
	Phone         string `validate:"required,min=8,max=20"`
	WorkStartTime string `validate:"required,datetime=15:04"`
	WorkEndTime   string `validate:"required,datetime=15:04"`
	WorkDays      []int  `validate:"required,min=1,max=7,dive,gte=0,lte=6"`
}

// ParseForm reads the roster form. Weekday checkboxes arrive as
// repeated values; they are deduplicated and kept sorted so the API
// always receives a canonical set.
func ParseForm(r *http.Request) Form {
	form := Form{
		Name:          r.PostFormValue("name"),
		Role:          r.PostFormValue("role"),
		Phone:         r.PostFormValue("phone"),
		WorkStartTime: r.PostFormValue("workStartTime"),
		WorkEndTime:   r.PostFormValue("workEndTime"),
	}

	seen := make(map[int]bool)
	for _, raw := range r.PostForm["workDays"] {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 0 || day > 6 {
			continue
		}
		if !seen[day] {
			seen[day] = true
			form.WorkDays = append(form.WorkDays, day)
		}
	}
	sort.Ints(form.WorkDays)

	return form
}

// Validate returns the inline message for the first problem, or ""
// when the form may be submitted upstream.
func (f Form) Validate(v *validator.Validate) string {
	if err := v.Struct(f); err == nil {
		return ""
	}

	if f.Name == "" || f.Role == "" || f.Phone == "" ||
		f.WorkStartTime == "" || f.WorkEndTime == "" {
		return "Preencha todos os campos obrigatórios"
	}

	if len(f.WorkDays) == 0 {
		return "Selecione ao menos um dia de trabalho"
	}

	return "Dados inválidos. Verifique os campos e tente novamente."
}

func (f Form) Input() api.EmployeeInput {
	return api.EmployeeInput{
		Name:          f.Name,
		Role:          f.Role,
		Phone:         f.Phone,
		WorkStartTime: f.WorkStartTime,
		WorkEndTime:   f.WorkEndTime,
		WorkDays:      f.WorkDays,
	}
}

func (f Form) HasDay(day int) bool {
	for _, d := range f.WorkDays {
		if d == day {
			return true
		}
	}
	return false
}

func FormFromEmployee(e api.Employee) Form {
	return Form{
		Name:          e.Name,
		Role:          e.Role,
		Phone:         e.Phone,
		WorkStartTime: e.WorkStartTime,
		WorkEndTime:   e.WorkEndTime,
		WorkDays:      e.WorkDays,
	}
}

func NewForm() Form {
	return Form{
		WorkStartTime: DefaultWorkStartTime,
		WorkEndTime:   DefaultWorkEndTime,
		WorkDays:      append([]int(nil), DefaultWorkDays...),
	}
}
