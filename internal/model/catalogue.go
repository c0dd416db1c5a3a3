package model

import "strings"

// IssueType identifies an audit rule.
type IssueType string

// Issue types produced by the audit.
const (
	IssueMissingTitle       IssueType = "Missing_Title"
	IssueDuplicateTitles    IssueType = "Duplicate_Titles"
	IssueShortTitles        IssueType = "Short_Titles"
	IssueLongTitles         IssueType = "Long_Titles"
	IssueMissingMetaDesc    IssueType = "Missing_Meta_Desc"
	IssueMultipleMetaDesc   IssueType = "Multiple_Meta_Desc"
	IssueShortMetaDesc      IssueType = "Short_Meta_Desc"
	IssueLongMetaDesc       IssueType = "Long_Meta_Desc"
	IssueDuplicateMetaDesc  IssueType = "Duplicate_Meta_Desc"
	IssueMissingH1s         IssueType = "Missing_H1s"
	IssueLongH1s            IssueType = "Long_H1s"
	IssueMultipleH1s        IssueType = "Multiple_H1s"
	IssueDuplicateH1s       IssueType = "Duplicate_H1s"
	IssueLowWordCount       IssueType = "Low_Word_Count"
	IssueDuplicateContent   IssueType = "Duplicate_Content"
	IssueImgMissingAlt      IssueType = "Img_Missing_Alt"
	IssueLargeImages        IssueType = "Large_Images"
	IssueImgEXIFMetadata    IssueType = "Img_EXIF_Metadata"
	IssueNonSelfCanonicals  IssueType = "Non_Self_Canonicals"
	IssueMultipleCanonicals IssueType = "Multiple_Canonicals"
	IssueInvalidHreflang    IssueType = "Invalid_Hreflang"
	IssueBrokenInternal     IssueType = "Broken_Internal_Links"
	IssueBrokenExternal     IssueType = "Broken_External_Links"
	IssueBrokenSitemapURLs  IssueType = "Broken_Sitemap_URLs"
	IssueSitemapOnlyURLs    IssueType = "Sitemap_Only_URLs"
	IssueNotInSitemap       IssueType = "Not_In_Sitemap"
)

// Column identifies one field of an Issue in tabular output.
type Column int

const (
	ColumnURL Column = iota
	ColumnValue
	ColumnLength
	ColumnCount
	ColumnSizeKB
	ColumnStatus
	ColumnSource
	ColumnFoundOn
)

// ColumnSpec is a column with its header label.
type ColumnSpec struct {
	Column Column
	Label  string
}

// IssueInfo describes an issue type for reports.
type IssueInfo struct {
	Severity Severity

	// SheetName is the short display name, also used as the spreadsheet tab.
	SheetName string

	// Description and Recommendation may contain threshold placeholders such
	// as {title_min}; see Describe.
	Description    string
	Recommendation string

	// Columns lists the table layout used by tabular writers.
	Columns []ColumnSpec
}

// Headers returns the column labels.
func (i IssueInfo) Headers() []string {
	headers := make([]string, len(i.Columns))
	for n, c := range i.Columns {
		headers[n] = c.Label
	}
	return headers
}

// Describe returns Description with threshold placeholders filled in.
func (i IssueInfo) Describe(th Thresholds) string {
	return th.replacer().Replace(i.Description)
}

// Recommend returns Recommendation with threshold placeholders filled in.
func (i IssueInfo) Recommend(th Thresholds) string {
	return th.replacer().Replace(i.Recommendation)
}

func col(c Column, label string) ColumnSpec {
	return ColumnSpec{Column: c, Label: label}
}

var (
	urlOnly        = []ColumnSpec{col(ColumnURL, "URL")}
	titleLength    = []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "Title"), col(ColumnLength, "Length")}
	metaLength     = []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "Description"), col(ColumnLength, "Length")}
	duplicateText  = []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "Duplicate Text")}
	countColumns   = []ColumnSpec{col(ColumnURL, "URL"), col(ColumnCount, "Count")}
	brokenLinks    = []ColumnSpec{col(ColumnURL, "URL"), col(ColumnStatus, "Status"), col(ColumnSource, "Source"), col(ColumnFoundOn, "Found On")}
	sitemapColumns = []ColumnSpec{col(ColumnURL, "URL"), col(ColumnStatus, "Status")}
)

// issueOrder is the order issue types appear in reports.
var issueOrder = []IssueType{
	IssueMissingTitle, IssueDuplicateTitles, IssueShortTitles, IssueLongTitles,
	IssueMissingMetaDesc, IssueMultipleMetaDesc, IssueShortMetaDesc, IssueLongMetaDesc, IssueDuplicateMetaDesc,
	IssueMissingH1s, IssueLongH1s, IssueMultipleH1s, IssueDuplicateH1s,
	IssueLowWordCount, IssueDuplicateContent,
	IssueImgMissingAlt, IssueLargeImages, IssueImgEXIFMetadata,
	IssueNonSelfCanonicals, IssueMultipleCanonicals, IssueInvalidHreflang,
	IssueBrokenInternal, IssueBrokenExternal,
	IssueBrokenSitemapURLs, IssueSitemapOnlyURLs, IssueNotInSitemap,
}

// issueCatalogue maps issue types to their report metadata.
//
// Design decision: We use a map rather than embedding text in each rule
// because:
// 1. It allows updating wording and severities without touching rules
// 2. It provides a single source of truth for every writer (text, xlsx, ...)
// 3. It makes it easy to generate documentation for the checks
var issueCatalogue = map[IssueType]IssueInfo{
	IssueMissingTitle: {
		Severity:       SeverityHigh,
		SheetName:      "Missing Title",
		Description:    "Issue: These pages are missing a <title> tag.",
		Recommendation: "Recommendation: Add a unique, descriptive title to every page.",
		Columns:        urlOnly,
	},
	IssueDuplicateTitles: {
		Severity:       SeverityMedium,
		SheetName:      "Duplicate Titles",
		Description:    "Issue: Two or more pages share the same title.",
		Recommendation: "Recommendation: Write a unique title for each page to differentiate them in search results.",
		Columns:        duplicateText,
	},
	IssueShortTitles: {
		Severity:       SeverityLow,
		SheetName:      "Short Titles",
		Description:    "Issue: Titles with fewer than {title_min} characters, which are often uninformative.",
		Recommendation: "Recommendation: Expand titles to be more descriptive and engaging.",
		Columns:        titleLength,
	},
	IssueLongTitles: {
		Severity:       SeverityLow,
		SheetName:      "Long Titles",
		Description:    "Issue: Titles with more than {title_max} characters may be truncated in search results.",
		Recommendation: "Recommendation: Shorten titles to ensure they display correctly.",
		Columns:        titleLength,
	},
	IssueMissingMetaDesc: {
		Severity:       SeverityMedium,
		SheetName:      "Missing Meta Description",
		Description:    "Issue: Pages without a meta description are missing an opportunity to attract clicks.",
		Recommendation: "Recommendation: Add a unique meta description (between {meta_min}-{meta_max} chars) to each page.",
		Columns:        urlOnly,
	},
	IssueMultipleMetaDesc: {
		Severity:       SeverityMedium,
		SheetName:      "Multiple Meta Descriptions",
		Description:    "Issue: Pages declaring more than one meta description. Search engines may pick either one.",
		Recommendation: "Recommendation: Keep a single meta description per page.",
		Columns:        countColumns,
	},
	IssueShortMetaDesc: {
		Severity:       SeverityLow,
		SheetName:      "Short Meta Descriptions",
		Description:    "Issue: Meta descriptions with fewer than {meta_min} characters.",
		Recommendation: "Recommendation: Expand meta descriptions to provide a more compelling summary of the page content.",
		Columns:        metaLength,
	},
	IssueLongMetaDesc: {
		Severity:       SeverityLow,
		SheetName:      "Long Meta Descriptions",
		Description:    "Issue: Meta descriptions with more than {meta_max} characters will be cut off.",
		Recommendation: "Recommendation: Shorten meta descriptions to fit within the recommended length.",
		Columns:        metaLength,
	},
	IssueDuplicateMetaDesc: {
		Severity:       SeverityMedium,
		SheetName:      "Duplicate Meta Descriptions",
		Description:    "Issue: Multiple pages share the same meta description.",
		Recommendation: "Recommendation: Write a unique meta description for each page.",
		Columns:        duplicateText,
	},
	IssueMissingH1s: {
		Severity:       SeverityMedium,
		SheetName:      "Missing H1",
		Description:    "Issue: Pages without an H1 tag, which is key for defining the main topic.",
		Recommendation: "Recommendation: Add a single, relevant H1 tag to every page.",
		Columns:        urlOnly,
	},
	IssueLongH1s: {
		Severity:       SeverityLow,
		SheetName:      "H1 Too Long",
		Description:    "Issue: H1 tags with more than {h1_max} characters.",
		Recommendation: "Recommendation: Keep H1 tags concise and focused on the main page topic.",
		Columns:        []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "H1"), col(ColumnLength, "Length")},
	},
	IssueMultipleH1s: {
		Severity:       SeverityLow,
		SheetName:      "Multiple H1",
		Description:    "Issue: Pages with more than one H1 tag, which dilutes the topic signal.",
		Recommendation: "Recommendation: Use only one H1 tag per page. Use H2-H6 for subheadings.",
		Columns:        countColumns,
	},
	IssueDuplicateH1s: {
		Severity:       SeverityLow,
		SheetName:      "Duplicate H1",
		Description:    "Issue: Multiple pages share the same primary H1 tag.",
		Recommendation: "Recommendation: Write a unique H1 for each page that reflects its specific content.",
		Columns:        duplicateText,
	},
	IssueLowWordCount: {
		Severity:       SeverityLow,
		SheetName:      "Low Word Count",
		Description:    "Issue: Pages with fewer than {word_min} words, which may be perceived as thin content.",
		Recommendation: "Recommendation: Expand the content on these pages to provide more value to users and search engines.",
		Columns:        []ColumnSpec{col(ColumnURL, "URL"), col(ColumnCount, "Word Count")},
	},
	IssueDuplicateContent: {
		Severity:       SeverityHigh,
		SheetName:      "Duplicate Content",
		Description:    "Issue: Pages whose visible text is identical to another crawled page.",
		Recommendation: "Recommendation: Consolidate duplicate pages or point them at one primary page with a canonical link.",
		Columns:        []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "Content Hash"), col(ColumnCount, "Pages")},
	},
	IssueImgMissingAlt: {
		Severity:       SeverityMedium,
		SheetName:      "Images Missing Alt Text",
		Description:    "Issue: Images without alt text, affecting accessibility and image SEO.",
		Recommendation: "Recommendation: Add descriptive alt text to all important images.",
		Columns:        []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "Image Source")},
	},
	IssueLargeImages: {
		Severity:       SeverityMedium,
		SheetName:      "Large Images",
		Description:    "Issue: Images larger than {image_kb} KB, which can slow down page load times.",
		Recommendation: "Recommendation: Compress and resize images to reduce their file size without sacrificing quality.",
		Columns:        []ColumnSpec{col(ColumnURL, "Image URL"), col(ColumnSizeKB, "Size (KB)"), col(ColumnFoundOn, "Found On")},
	},
	IssueImgEXIFMetadata: {
		Severity:       SeverityInfo,
		SheetName:      "Images With EXIF Metadata",
		Description:    "Issue: Images still carry EXIF metadata such as camera details or GPS coordinates.",
		Recommendation: "Recommendation: Strip metadata when exporting images. It adds weight and may disclose where photos were taken.",
		Columns:        []ColumnSpec{col(ColumnURL, "Image URL"), col(ColumnValue, "EXIF Tags"), col(ColumnFoundOn, "Found On")},
	},
	IssueNonSelfCanonicals: {
		Severity:       SeverityInfo,
		SheetName:      "Non-Self-Referencing Canonical",
		Description:    "Issue: The canonical URL does not match the page URL.",
		Recommendation: "Recommendation: This may be intentional for duplicate pages. Review to ensure the canonical points to the correct primary page.",
		Columns:        []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "Canonical URL")},
	},
	IssueMultipleCanonicals: {
		Severity:       SeverityHigh,
		SheetName:      "Multiple Canonicals",
		Description:    "Issue: Pages declaring more than one canonical link. Search engines ignore conflicting canonicals.",
		Recommendation: "Recommendation: Declare exactly one canonical link per page.",
		Columns:        countColumns,
	},
	IssueInvalidHreflang: {
		Severity:       SeverityMedium,
		SheetName:      "Invalid Hreflang",
		Description:    "Issue: Alternate links whose hreflang value is not a valid language tag.",
		Recommendation: "Recommendation: Use ISO 639-1 language codes with optional ISO 3166-1 regions (e.g. en, en-GB) or x-default.",
		Columns:        []ColumnSpec{col(ColumnURL, "URL"), col(ColumnValue, "Hreflang")},
	},
	IssueBrokenInternal: {
		Severity:       SeverityCritical,
		SheetName:      "Broken Internal Links",
		Description:    "Issue: Internal links that return an error status or cannot be reached.",
		Recommendation: "Recommendation: Fix or remove the links, or redirect the missing pages to a relevant replacement.",
		Columns:        brokenLinks,
	},
	IssueBrokenExternal: {
		Severity:       SeverityMedium,
		SheetName:      "Broken External Links",
		Description:    "Issue: Links to other sites that return an error status or cannot be reached.",
		Recommendation: "Recommendation: Update the links to working destinations or remove them.",
		Columns:        brokenLinks,
	},
	IssueBrokenSitemapURLs: {
		Severity:       SeverityHigh,
		SheetName:      "Broken Sitemap URLs",
		Description:    "Issue: URLs listed in the sitemap that return an error status or cannot be reached.",
		Recommendation: "Recommendation: Remove dead URLs from the sitemap or restore the pages.",
		Columns:        sitemapColumns,
	},
	IssueSitemapOnlyURLs: {
		Severity:       SeverityMedium,
		SheetName:      "Sitemap Only URLs",
		Description:    "Issue: URLs listed in the sitemap that the crawl could not reach through internal links.",
		Recommendation: "Recommendation: Link to these pages from the site, or drop them from the sitemap if they are obsolete.",
		Columns:        urlOnly,
	},
	IssueNotInSitemap: {
		Severity:       SeverityLow,
		SheetName:      "Not In Sitemap",
		Description:    "Issue: Crawled pages missing from the sitemap.",
		Recommendation: "Recommendation: Add indexable pages to the sitemap so search engines discover them faster.",
		Columns:        urlOnly,
	},
}

// IssueTypes returns every known issue type in report order.
func IssueTypes() []IssueType {
	out := make([]IssueType, len(issueOrder))
	copy(out, issueOrder)
	return out
}

// GetIssueInfo returns the catalogue entry for an issue type.
// Unknown types get an informational entry named after the type.
func GetIssueInfo(t IssueType) IssueInfo {
	if info, ok := issueCatalogue[t]; ok {
		return info
	}
	return IssueInfo{
		Severity:       SeverityInfo,
		SheetName:      strings.ReplaceAll(string(t), "_", " "),
		Description:    "Issue: Unknown issue type. Review manually.",
		Recommendation: "Recommendation: Investigate the affected pages.",
		Columns:        urlOnly,
	}
}

// GetSeverity returns the severity for an issue type.
func GetSeverity(t IssueType) Severity {
	return GetIssueInfo(t).Severity
}
