package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	Carts() CartRepository
	Products() ProductRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 注文作成（order insert + cart clear）は必ず同一Txで行う
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
