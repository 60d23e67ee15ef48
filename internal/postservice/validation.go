package postservice

import "github.com/adiwicaksono/warta/internal/common"

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "cannot be empty")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must be at most 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "cannot be empty")
}

func validateID(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
