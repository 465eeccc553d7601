package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/marlogas/caja-api/internal/domain"
)

// ProductType filtra despachos pelo produto entregue
type ProductType string

const (
	ProductAll       ProductType = "all"
	ProductWaterOnly ProductType = "water"
	ProductGasOnly   ProductType = "gas"
	ProductBoth      ProductType = "both"
)

func ParseProductType(s string) (ProductType, error) {
	switch p := ProductType(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProductAll, nil
	case ProductAll, ProductWaterOnly, ProductGasOnly, ProductBoth:
		return p, nil
	default:
		return "", domain.NewError(domain.ErrValidation, "relatório", "tipo de produto inválido: "+s)
	}
}

type SortField string

const (
	SortByClient        SortField = "client"
	SortByAddress       SortField = "address"
	SortByNotes         SortField = "notes"
	SortByPaymentMethod SortField = "payment_method"
	SortByBusinessDate  SortField = "business_date"
	SortByCreatedAt     SortField = "created_at"
	SortByPrice         SortField = "price"
	SortByGas           SortField = "gas"
	SortByWater         SortField = "water"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// DefaultPageSize é usado quando o tamanho de página informado é menor que 1
const DefaultPageSize = 20

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return SortByCreatedAt, nil
	case SortByClient, SortByAddress, SortByNotes, SortByPaymentMethod,
		SortByBusinessDate, SortByCreatedAt, SortByPrice, SortByGas, SortByWater:
		return f, nil
	default:
		return "", domain.NewError(domain.ErrValidation, "relatório", "campo de ordenação inválido: "+s)
	}
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Descending, nil
	case Ascending, Descending:
		return d, nil
	default:
		return "", domain.NewError(domain.ErrValidation, "relatório", "direção de ordenação inválida: "+s)
	}
}

// FilterByRange mantém despachos com data de negócio em [start, end]
func FilterByRange(dispatches []domain.Dispatch, start, end time.Time) []domain.Dispatch {
	start = domain.DateOf(start, nil)
	end = domain.DateOf(end, nil)

	result := make([]domain.Dispatch, 0, len(dispatches))
	if start.After(end) {
		return result
	}

	for _, d := range dispatches {
		date := domain.DateOf(d.BusinessDate, nil)
		if !date.Before(start) && !date.After(end) {
			result = append(result, d)
		}
	}
	return result
}

func FilterByProductType(dispatches []domain.Dispatch, product ProductType) []domain.Dispatch {
	result := make([]domain.Dispatch, 0, len(dispatches))
	for _, d := range dispatches {
		hasGas := d.Gas > 0
		hasWater := d.Water > 0

		var keep bool
		switch product {
		case ProductWaterOnly:
			keep = hasWater && !hasGas
		case ProductGasOnly:
			keep = hasGas && !hasWater
		case ProductBoth:
			keep = hasGas && hasWater
		default:
			keep = true
		}

		if keep {
			result = append(result, d)
		}
	}
	return result
}

// FilterByText busca o termo, sem diferenciar maiúsculas, em cliente, endereço e observações
func FilterByText(dispatches []domain.Dispatch, term string) []domain.Dispatch {
	term = strings.ToLower(strings.TrimSpace(term))
	result := make([]domain.Dispatch, 0, len(dispatches))

	for _, d := range dispatches {
		if term == "" ||
			strings.Contains(strings.ToLower(d.Client), term) ||
			strings.Contains(strings.ToLower(d.Address), term) ||
			strings.Contains(strings.ToLower(d.Notes), term) {
			result = append(result, d)
		}
	}
	return result
}

// SortBy devolve uma cópia ordenada. A ordenação é estável: empates mantêm a
// ordem de entrada nas duas direções.
func SortBy(dispatches []domain.Dispatch, field SortField, direction SortDirection) []domain.Dispatch {
	result := make([]domain.Dispatch, len(dispatches))
	copy(result, dispatches)

	compare := comparator(field)
	if compare == nil {
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		if direction == Descending {
			return compare(result[j], result[i]) < 0
		}
		return compare(result[i], result[j]) < 0
	})

	return result
}

func comparator(field SortField) func(a, b domain.Dispatch) int {
	switch field {
	case SortByPrice:
		return func(a, b domain.Dispatch) int { return a.Price.Cmp(b.Price) }
	case SortByGas:
		return func(a, b domain.Dispatch) int { return a.Gas - b.Gas }
	case SortByWater:
		return func(a, b domain.Dispatch) int { return a.Water - b.Water }
	case SortByClient:
		return textComparator(func(d domain.Dispatch) string { return d.Client })
	case SortByAddress:
		return textComparator(func(d domain.Dispatch) string { return d.Address })
	case SortByNotes:
		return textComparator(func(d domain.Dispatch) string { return d.Notes })
	case SortByPaymentMethod:
		return textComparator(func(d domain.Dispatch) string { return d.PaymentMethod.String() })
	case SortByBusinessDate:
		return textComparator(func(d domain.Dispatch) string { return domain.FormatDate(d.BusinessDate) })
	case SortByCreatedAt:
		return textComparator(func(d domain.Dispatch) string { return d.CreatedAt.UTC().Format(createdAtLayout) })
	default:
		return nil
	}
}

// Largura fixa para que a comparação textual siga a ordem cronológica
const createdAtLayout = "2006-01-02T15:04:05.000000000"

func textComparator(key func(domain.Dispatch) string) func(a, b domain.Dispatch) int {
	return func(a, b domain.Dispatch) int {
		return strings.Compare(key(a), key(b))
	}
}

// Paginate devolve a página (a partir de 1) e o total de páginas, nunca menor que 1.
// Página fora do intervalo devolve lista vazia.
func Paginate(dispatches []domain.Dispatch, page, size int) ([]domain.Dispatch, int) {
	if size < 1 {
		size = DefaultPageSize
	}

	totalPages := (len(dispatches) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 || page > totalPages {
		return []domain.Dispatch{}, totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(dispatches) {
		end = len(dispatches)
	}

	items := make([]domain.Dispatch, end-start)
	copy(items, dispatches[start:end])
	return items, totalPages
}

// Summarize usa a mesma agregação da caja, sem gaveteiro
func Summarize(dispatches []domain.Dispatch) domain.Summary {
	return domain.Tally(dispatches)
}
