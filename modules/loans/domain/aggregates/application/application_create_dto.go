package application

import (
	"strings"

	"github.com/harborcredit/loanscreen/pkg/constants"
)

type CreateDTO struct {
	RequestedAmount       string `json:"requested_amount" validate:"required"`
	RequestedTenureMonths int    `json:"requested_tenure_months" validate:"required,gt=0,lte=480"`
}

func (d *CreateDTO) Normalize() {
	d.RequestedAmount = strings.TrimSpace(d.RequestedAmount)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	if err := constants.Validate.Struct(d); err != nil {
		return map[string]string{"request": err.Error()}, false
	}
	return map[string]string{}, true
}
