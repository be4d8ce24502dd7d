package session

// Binder receives the credentials outgoing requests have to carry.
// An empty token or a tenant id of 0 clears the binding.
type Binder interface {
	SetToken(token string)
	SetTenantID(id uint64)
}

// TenantCodeBinder is implemented by binders that also forward the tenant code.
type TenantCodeBinder interface {
	SetTenantCode(code string)
}

// nopBinder is used when a Store is created without a binder.
type nopBinder struct{}

func (nopBinder) SetToken(string)    {}
func (nopBinder) SetTenantID(uint64) {}

func bindTenantCode(b Binder, code string) {
	if cb, ok := b.(TenantCodeBinder); ok {
		cb.SetTenantCode(code)
	}
}
