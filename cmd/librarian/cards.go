package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-management-go/library"
)

const (
	flagName       = "name"
	flagDepartment = "department"
	flagType       = "type"
	flagCard       = "card"
)

func (a *app) newCardCommand() *cobra.Command {
	card := &cobra.Command{
		Use:   "card",
		Short: "Register, remove and list library cards",
	}

	card.AddCommand(
		a.newCardRegisterCommand(),
		a.newCardRemoveCommand(),
		a.newCardListCommand(),
	)

	return card
}

func (a *app) newCardRegisterCommand() *cobra.Command {
	var card library.Card
	var cardType string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a student or teacher card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := library.ParseCardType(cardType)
			if err != nil {
				return printResult(a.stdout, library.Failed(err))
			}

			card.Type = parsed

			result := a.service.RegisterCard(cmd.Context(), &card)

			return printResult(a.stdout, withPayload(result, card))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&card.Name, flagName, "", "card holder name")
	flags.StringVar(&card.Department, flagDepartment, "", "card holder department")
	flags.StringVar(&cardType, flagType, "student", "card type: student (S) or teacher (T)")
	_ = cmd.MarkFlagRequired(flagName)

	return cmd
}

func (a *app) newCardRemoveCommand() *cobra.Command {
	var cardID library.CardID

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a card without unreturned books, together with its borrow history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(a.stdout, a.service.RemoveCard(cmd.Context(), cardID))
		},
	}

	cmd.Flags().Int64Var(&cardID, flagID, 0, "card id")
	_ = cmd.MarkFlagRequired(flagID)

	return cmd
}

func (a *app) newCardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(a.stdout, a.service.ShowCards(cmd.Context()))
		},
	}
}
