package console

import (
	"fmt"
	"io"
	"strings"

	domain "user-crud-console/internal/domain/user"
	"user-crud-console/internal/usecase/userlist"
)

const formWidth = 44

func renderCards(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "no users")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "#%-4d %s\n", u.ID, u.Name)
		fmt.Fprintf(w, "      %s\n", u.Email)
		fmt.Fprintf(w, "      %s\n", u.Phone)
		fmt.Fprintf(w, "      [edit %d] [delete %d]\n", u.ID, u.ID)
	}
}

func renderForm(w io.Writer, s userlist.Session) {
	if !s.Visible {
		return
	}
	title := "+-- " + s.Title() + " "
	fmt.Fprintln(w, title+strings.Repeat("-", max(0, formWidth-len(title))))
	fmt.Fprintf(w, "| Name:  %s\n", s.Fields.Name)
	fmt.Fprintf(w, "| Email: %s\n", s.Fields.Email)
	fmt.Fprintf(w, "| Phone: %s\n", s.Fields.Phone)
	fmt.Fprintf(w, "+-- [close] [%s]\n", s.SaveLabel())
}
