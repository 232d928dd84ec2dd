package dto

import "encoding/xml"

// CompaniesDocument is the root of the directory feed.
type CompaniesDocument struct {
	XMLName   xml.Name  `xml:"companies"`
	Companies []Company `xml:"company"`
}

// Company is one <company> element. Missing child elements decode as "".
type Company struct {
	Name               string `xml:"name"`
	Currency           string `xml:"currency"`
	Exchange           string `xml:"exchange"`
	Size               string `xml:"size"`
	Sector             string `xml:"sector"`
	Symbol             string `xml:"symbol"`
	ISIN               string `xml:"isin"`
	ReutersSymbolGuess string `xml:"reuters-symbol-guess"`
}
