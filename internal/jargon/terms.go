// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jargon recognizes financial vocabulary in mentor responses.
package jargon

// =============================================================================
// CATEGORY TYPE
// =============================================================================

// Category groups glossary terms for browsing.
type Category string

const (
	CategoryInvestment Category = "investment"
	CategoryBanking    Category = "banking"
	CategoryInsurance  Category = "insurance"
	CategoryGeneral    Category = "general"
)

// Categories lists all known categories in display order.
func Categories() []Category {
	return []Category{CategoryInvestment, CategoryBanking, CategoryInsurance, CategoryGeneral}
}

// =============================================================================
// TERM TYPE
// =============================================================================

// Term is a financial vocabulary entry with a registered plain-language
// definition, eligible for in-text annotation.
type Term struct {
	// Term is the canonical display name (e.g., "Asset Allocation").
	Term string

	// Definition is the plain-language explanation.
	Definition string

	// Category groups the term in the glossary.
	Category Category

	// Variations are the surface forms that resolve to this term: the
	// canonical name itself plus plural/verb forms and abbreviations.
	// Matching is case-insensitive. A variation string must be unique
	// across the whole table; on conflict the first-registered term wins.
	Variations []string
}

// =============================================================================
// TERM TABLE
// =============================================================================

// Terms returns the static financial jargon dictionary. Defined once at
// process start; never mutated at runtime.
func Terms() []Term {
	return []Term{
		{
			Term:       "Asset Allocation",
			Definition: "The strategy of dividing investments among different asset categories like stocks, bonds, and cash to optimize risk and return.",
			Category:   CategoryInvestment,
			Variations: []string{"asset allocation", "asset allocations", "allocating assets"},
		},
		{
			Term:       "Compound Interest",
			Definition: "Interest calculated on the initial principal and accumulated interest from previous periods.",
			Category:   CategoryGeneral,
			Variations: []string{"compound interest", "compounding", "compound growth"},
		},
		{
			Term:       "Diversification",
			Definition: "The practice of spreading investments across various financial instruments to reduce risk exposure.",
			Category:   CategoryInvestment,
			Variations: []string{"diversification", "diversify", "diversified", "diversifying"},
		},
		{
			Term:       "Liquidity",
			Definition: "How quickly and easily an asset can be converted into cash without significantly affecting its price.",
			Category:   CategoryGeneral,
			Variations: []string{"liquidity", "liquid", "liquidate", "liquidation"},
		},
		{
			Term:       "Bull Market",
			Definition: "A financial market characterized by rising prices and investor optimism, typically lasting for months or years.",
			Category:   CategoryInvestment,
			Variations: []string{"bull market", "bull markets", "bullish"},
		},
		{
			Term:       "Bear Market",
			Definition: "A market condition where prices fall 20% or more from recent highs, often accompanied by widespread pessimism.",
			Category:   CategoryInvestment,
			Variations: []string{"bear market", "bear markets", "bearish"},
		},
		{
			Term:       "APR",
			Definition: "Annual Percentage Rate - the yearly cost of borrowing money, including interest and fees, expressed as a percentage.",
			Category:   CategoryBanking,
			Variations: []string{"apr", "annual percentage rate"},
		},
		{
			Term:       "Credit Score",
			Definition: "A numerical representation of creditworthiness, typically ranging from 300-850, used by lenders to assess risk.",
			Category:   CategoryBanking,
			Variations: []string{"credit score", "credit scores", "credit rating"},
		},
		{
			Term:       "ROI",
			Definition: "Return on Investment - a measure of investment efficiency calculated as (Gain - Cost) / Cost x 100%.",
			Category:   CategoryInvestment,
			Variations: []string{"roi", "return on investment", "returns"},
		},
		{
			Term:       "Premium",
			Definition: "The amount paid for an insurance policy, typically on a monthly, quarterly, or annual basis.",
			Category:   CategoryInsurance,
			Variations: []string{"premium", "premiums", "insurance premium"},
		},
		{
			Term:       "Portfolio",
			Definition: "A collection of financial investments like stocks, bonds, commodities, cash, and cash equivalents.",
			Category:   CategoryInvestment,
			Variations: []string{"portfolio", "portfolios", "investment portfolio"},
		},
		{
			Term:       "Volatility",
			Definition: "The degree of variation in a trading price series over time, usually measured by the standard deviation of returns.",
			Category:   CategoryInvestment,
			Variations: []string{"volatility", "volatile", "volatilities"},
		},
		{
			Term:       "Equity",
			Definition: "The value of shares issued by a company, or the ownership interest in a property after debts are paid.",
			Category:   CategoryGeneral,
			Variations: []string{"equity", "equities", "stock equity"},
		},
		{
			Term:       "Dividend",
			Definition: "A payment made by corporations to their shareholders, usually as a distribution of profits.",
			Category:   CategoryInvestment,
			Variations: []string{"dividend", "dividends", "dividend payment"},
		},
		{
			Term:       "Inflation",
			Definition: "The rate at which the general level of prices for goods and services rises, eroding purchasing power.",
			Category:   CategoryGeneral,
			Variations: []string{"inflation", "inflationary", "inflate"},
		},
		{
			Term:       "Budget",
			Definition: "A plan for how to spend and save money over a specific period, typically monthly or yearly.",
			Category:   CategoryGeneral,
			Variations: []string{"budget", "budgets", "budgeting"},
		},
		{
			Term:       "Emergency Fund",
			Definition: "Money set aside to cover unexpected expenses or financial emergencies, typically 3-6 months of living expenses.",
			Category:   CategoryGeneral,
			Variations: []string{"emergency fund", "emergency funds", "emergency savings"},
		},
		{
			Term:       "401k",
			Definition: "A retirement savings plan sponsored by an employer that allows employees to save and invest for retirement on a tax-deferred basis.",
			Category:   CategoryInvestment,
			Variations: []string{"401k", "401(k)", "four-oh-one-k"},
		},
		{
			Term:       "IRA",
			Definition: "Individual Retirement Account - a tax-advantaged account designed to help you save for retirement.",
			Category:   CategoryInvestment,
			Variations: []string{"ira", "individual retirement account"},
		},
		{
			Term:       "Mutual Fund",
			Definition: "An investment vehicle that pools money from many investors to purchase securities like stocks, bonds, or other assets.",
			Category:   CategoryInvestment,
			Variations: []string{"mutual fund", "mutual funds"},
		},
	}
}
