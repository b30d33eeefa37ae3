package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/epicevents/crm/internal/core/domain"
)

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	tw.Flush()
}

func printClients(w io.Writer, clients []*domain.Client) {
	if len(clients) == 0 {
		fmt.Fprintln(w, "No clients.")
		return
	}
	table(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY\tCOMMERCIAL\tLAST CONTACT", func(tw *tabwriter.Writer) {
		for _, c := range clients {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.FullName, c.Email, c.Phone, c.CompanyName, c.CommercialContact, formatTime(c.LastContactDate))
		}
	})
}

func printContracts(w io.Writer, contracts []*domain.Contract) {
	if len(contracts) == 0 {
		fmt.Fprintln(w, "No contracts.")
		return
	}
	table(w, "ID\tCLIENT\tCOMMERCIAL\tTOTAL\tDUE\tSIGNED\tCREATED", func(tw *tabwriter.Writer) {
		for _, c := range contracts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.ClientID, c.CommercialContact, c.TotalAmount.StringFixed(2), c.AmountDue.StringFixed(2),
				yesNo(c.Signed), formatTime(c.CreationDate))
		}
	})
}

func printEvents(w io.Writer, events []*domain.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}
	table(w, "ID\tNAME\tSTART\tEND\tLOCATION\tSUPPORT\tATTENDEES\tSTATUS", func(tw *tabwriter.Writer) {
		for _, e := range events {
			support := e.SupportContact
			if support == "" {
				support = "(none)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				e.ID, e.EventName, formatTime(e.EventDateStart), formatTime(e.EventDateEnd),
				e.Location, support, e.Attendees, e.Status)
		}
	})
}

func printCollaborators(w io.Writer, users []*domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No collaborators.")
		return
	}
	table(w, "ID\tEMPLOYEE\tNAME\tEMAIL\tDEPARTMENT\tROLE", func(tw *tabwriter.Writer) {
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
				u.ID, u.EmployeeNumber, u.FullName, u.Email, u.Department, u.RoleName())
		}
	})
}
