package ports

import "context"

// BalanceProvider lee el saldo disponible de la cuenta en centavos.
type BalanceProvider interface {
	GetBalance(ctx context.Context) (int, error)
}
