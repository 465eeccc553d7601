package domain

import "time"

// DateOf retorna a data de negócio (meia-noite UTC) correspondente ao instante t
// no fuso horário loc. Datas de negócio são sempre comparadas nesse formato.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseBusinessDate interpreta uma data no formato YYYY-MM-DD
func ParseBusinessDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, WrapError(ErrValidation, "data de negócio", err)
	}
	return t, nil
}

// FormatDate formata uma data de negócio como YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
