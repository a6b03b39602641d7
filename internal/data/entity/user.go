package entity

type User struct {
	Base
	Username     string `db:"username"`
	PasswordHash string `db:"password"`
	IsSeller     bool   `db:"is_seller"`
}
