package pos

import (
	"fmt"
	"html/template"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/http/uiutil"
	"github.com/lubsanchez/pos-console/internal/service"
)

// Funcs returns helpers for money, sale and staff labels.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":          uiutil.FormatMoney,
		"paymentLabel":   PaymentLabel,
		"paymentMethods": pos.PaymentMethods,
		"statusLabel":    StatusLabel,
		"statusClass":    StatusClass,
		"roleLabel":      func(v any) string { return RoleLabel(domainauth.Role(asString(v))) },
		"toastClass":     func(v any) string { return ToastClass(service.ToastKind(asString(v))) },
	}
}

// PaymentLabel is the display name of a payment method.
func PaymentLabel(m pos.PaymentMethod) string {
	switch m {
	case pos.PaymentCash:
		return "Cash"
	case pos.PaymentCard:
		return "Card"
	case pos.PaymentTransfer:
		return "Transfer"
	default:
		return string(m)
	}
}

// StatusLabel is the display name of a sale status.
func StatusLabel(s pos.SaleStatus) string {
	switch s {
	case pos.SaleCompleted:
		return "Completed"
	case pos.SaleCancelled:
		return "Cancelled"
	case pos.SalePending:
		return "Pending"
	default:
		return string(s)
	}
}

// StatusClass is the badge class for a sale status.
func StatusClass(s pos.SaleStatus) string {
	switch s {
	case pos.SaleCompleted:
		return "badge-success"
	case pos.SaleCancelled:
		return "badge-danger"
	default:
		return "badge-secondary"
	}
}

// RoleLabel is the display name of a role.
func RoleLabel(r domainauth.Role) string {
	switch r {
	case domainauth.RoleAdmin:
		return "Administrator"
	case domainauth.RoleEmployee:
		return "Employee"
	default:
		return string(r)
	}
}

// ToastClass is the alert class for a toast kind.
func ToastClass(k service.ToastKind) string {
	switch k {
	case service.ToastSuccess:
		return "toast-success"
	case service.ToastError:
		return "toast-error"
	case service.ToastWarning:
		return "toast-warning"
	default:
		return "toast-info"
	}
}

// asString accepts both the typed values and the plain strings of view models.
func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
