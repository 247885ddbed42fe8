// Package catalog carga los maestros que el motor solo lee (ítems, plan de cuentas y
// política global de costeo) desde un archivo JSON y los escribe en el almacén elegido.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/pkg/config"
)

// ItemSeed ítem tal como aparece en el archivo.
type ItemSeed struct {
	ID            string `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	CostingMethod string `json:"costing_method"`
}

// AccountSeed cuenta tal como aparece en el archivo.
type AccountSeed struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// File contenido del catálogo. CostingMethod vacío deja la política global sin tocar.
type File struct {
	CostingMethod string        `json:"costing_method"`
	Items         []ItemSeed    `json:"items"`
	Accounts      []AccountSeed `json:"accounts"`
}

// Sink destino de la siembra.
type Sink interface {
	UpsertItem(ctx context.Context, item entity.Item) error
	UpsertAccount(ctx context.Context, acc entity.Account) error
	SetPolicy(ctx context.Context, key, value string) error
}

// Load lee y valida un catálogo.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decodificar catálogo %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate revisa métodos de costeo, tipos de cuenta y duplicados.
func (f *File) Validate() error {
	if m := strings.ToUpper(strings.TrimSpace(f.CostingMethod)); m != "" {
		if !entity.CostingMethod(m).Effective() {
			return fmt.Errorf("%w: política global %q", domain.ErrInvalidInput, f.CostingMethod)
		}
	}
	seen := make(map[string]bool, len(f.Items))
	for i, it := range f.Items {
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("%w: items[%d] sin id", domain.ErrInvalidInput, i)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: ítem %s duplicado", domain.ErrInvalidInput, it.ID)
		}
		seen[it.ID] = true
		if !itemMethod(it.CostingMethod).Valid() {
			return fmt.Errorf("%w: ítem %s con método %q", domain.ErrInvalidInput, it.ID, it.CostingMethod)
		}
	}
	codes := make(map[string]bool, len(f.Accounts))
	for i, a := range f.Accounts {
		if strings.TrimSpace(a.Code) == "" {
			return fmt.Errorf("%w: accounts[%d] sin código", domain.ErrInvalidInput, i)
		}
		if codes[a.Code] {
			return fmt.Errorf("%w: cuenta %s duplicada", domain.ErrInvalidInput, a.Code)
		}
		codes[a.Code] = true
		if !validAccountType(entity.AccountType(a.Type)) {
			return fmt.Errorf("%w: cuenta %s con tipo %q", domain.ErrInvalidInput, a.Code, a.Type)
		}
	}
	return nil
}

// Apply escribe el catálogo en el destino. Las cuentas del archivo se aplican después de
// las de config, así el archivo puede renombrarlas.
func Apply(ctx context.Context, sink Sink, f *File, accounts config.AccountsConfig) (Summary, error) {
	var sum Summary
	for _, acc := range DefaultAccounts(accounts) {
		if err := sink.UpsertAccount(ctx, acc); err != nil {
			return sum, err
		}
		sum.Accounts++
	}
	if f == nil {
		return sum, nil
	}
	if m := strings.ToUpper(strings.TrimSpace(f.CostingMethod)); m != "" {
		if err := sink.SetPolicy(ctx, entity.PolicyGlobalCostingMethod, m); err != nil {
			return sum, err
		}
		sum.Policy = m
	}
	for _, a := range f.Accounts {
		acc := entity.Account{ID: accountID(a.Code), Code: a.Code, Name: a.Name, Type: entity.AccountType(a.Type)}
		if err := sink.UpsertAccount(ctx, acc); err != nil {
			return sum, err
		}
		sum.Accounts++
	}
	for _, it := range f.Items {
		item := entity.Item{ID: it.ID, SKU: it.SKU, Name: it.Name, CostingMethod: itemMethod(it.CostingMethod)}
		if err := sink.UpsertItem(ctx, item); err != nil {
			return sum, err
		}
		sum.Items++
	}
	return sum, nil
}

// Summary cuántos registros se escribieron.
type Summary struct {
	Items    int
	Accounts int
	Policy   string
}

// DefaultAccounts cuentas que usan las operaciones de negocio, con los códigos de config.
func DefaultAccounts(c config.AccountsConfig) []entity.Account {
	defs := []struct {
		code string
		name string
		typ  entity.AccountType
	}{
		{c.Inventory, "Inventario de mercancías", entity.AccountAsset},
		{c.Receivable, "Clientes", entity.AccountAsset},
		{c.Revenue, "Ingresos por ventas", entity.AccountRevenue},
		{c.COGS, "Costo de ventas", entity.AccountExpense},
		{c.GRNI, "Mercancía recibida por facturar", entity.AccountLiability},
		{c.Adjustment, "Ajustes de inventario", entity.AccountExpense},
		{c.WIP, "Producción en proceso", entity.AccountAsset},
	}
	out := make([]entity.Account, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.code == "" || seen[d.code] {
			continue
		}
		seen[d.code] = true
		out = append(out, entity.Account{ID: accountID(d.code), Code: d.code, Name: d.name, Type: d.typ})
	}
	return out
}

// accountID deriva un id estable del código para que sembrar dos veces no cambie la cuenta.
func accountID(code string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("account:"+code)).String()
}

func itemMethod(s string) entity.CostingMethod {
	m := strings.ToUpper(strings.TrimSpace(s))
	if m == "" {
		return entity.CostingGlobal
	}
	return entity.CostingMethod(m)
}

func validAccountType(t entity.AccountType) bool {
	switch t {
	case entity.AccountAsset, entity.AccountLiability, entity.AccountEquity, entity.AccountRevenue, entity.AccountExpense:
		return true
	}
	return false
}
