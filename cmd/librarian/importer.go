package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AntonStoeckl/library-management-go/library"
)

var csvHeader = []string{"category", "title", "author", "press", "publish_year", "price", "stock"}

var errInvalidCSVHeader = errors.New("invalid csv header")

func csvHeaderLine() string {
	return strings.Join(csvHeader, ",")
}

// readBooksCSV reads one book per record. The first record must be the header.
func readBooksCSV(in io.Reader) ([]library.Book, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: the file is empty", errInvalidCSVHeader)
	}
	if err != nil {
		return nil, err
	}

	for i, column := range csvHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != column {
			return nil, fmt.Errorf("%w: want %s", errInvalidCSVHeader, csvHeaderLine())
		}
	}

	var books []library.Book

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			return books, nil
		}
		if readErr != nil {
			return nil, readErr
		}

		line, _ := reader.FieldPos(0)

		book, parseErr := parseBookRecord(record)
		if parseErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, parseErr)
		}

		books = append(books, book)
	}
}

func parseBookRecord(record []string) (library.Book, error) {
	year, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return library.Book{}, fmt.Errorf("publish_year: %w", err)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
	if err != nil {
		return library.Book{}, fmt.Errorf("price: %w", err)
	}

	stock, err := strconv.Atoi(strings.TrimSpace(record[6]))
	if err != nil {
		return library.Book{}, fmt.Errorf("stock: %w", err)
	}

	return library.Book{
		Category:    record[0],
		Title:       record[1],
		Author:      record[2],
		Press:       record[3],
		PublishYear: year,
		Price:       price,
		Stock:       stock,
	}, nil
}
