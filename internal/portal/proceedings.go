package portal

// Proceedings is the proceeding-type vocabulary offered by the file search
// form, in the order the portal lists it.
var Proceedings = []string{
	"1211 PUBLIC ADMINISTRATION PETITION",
	"1219 CHIEF FISCAL OFFICER PETITION",
	"6TH AMENDMENT",
	"ADMINISTRATION (ANCILLARY) DBN PETITION",
	"ADMINISTRATION (ANCILLARY) PETITION",
	"ADMINISTRATION (CTA) AFTER PROBATE",
	"ADMINISTRATION (DE BONIS NON) PETITION",
	"ADMINISTRATION AND TEMPORARY ADMINISTRATION PETITION",
	"ADMINISTRATION AND TEMPORARY PETITION",
	"ADMINISTRATION DBN AND TEMPORARY DBN PETITION",
	"ADMINISTRATION PETITION",
	"ADMINISTRATOR (CTA) & TEMPORARY ADMINISTRATOR CTA AFTER PROBATE",
	"ADMINISTRATOR CTA/DBN-APPOINTMENT OF",
	"ADMINISTRATOR CTA-APPOINTMENT OF",
	"ADMINISTRATOR CTA-APPOINTMENT OF TEMPORARY",
	"ADVICE AND DIRECTIONS",
	"AGREEMENTS SETTLING ESTATES",
	"ANNUAL REPORT PERSONAL NEEDS GUARDIAN",
	"ANNUAL REPORT PROPERTY GUARDIAN",
	"APPLICATION FOR REFUND",
	"APPLICATION TO EXAMINE SEALED PRIVATE RESIDENCE",
	"APPOINTMENT OF SUCCESSOR TRUSTEE- INTER VIVOS",
	"APPOINTMENT OF TRUSTEE-INTER VIVOS",
	"APPORTION TAXES",
	"CHARITABLE REMAINDER TRUST PETITION",
	"COMMON TRUST FUND - FINAL ACCOUNTING",
	"COMMON TRUST FUND - INTERMEDIATE ACCOUNTING",
	"COMPEL DELIVERY OF PROPERTY BY FIDUCIARY",
	"COMPEL FIDUCIARY TO ACCOUNT PETITION",
	"COMPEL PRODUCTION OF WILL",
	"COMPEL TRUSTEE TO ACCOUNT PETITION",
	"COMPENSATION OF PERSONS UNDER POWERS OF ATTY",
	"COMPROMISE CAUSE OF ACTION-NOT WRONGFUL DEATH",
	"COMPROMISE OF A CAUSE OF ACTION (NOT WRONGFUL DEATH)",
	"COMPROMISE OF ACTION NOT W/D",
	"COMPROMISE OF CONTROVERSY",
	"COMPROMISE OF DISPUTED OR UNSETTLED DEBT",
	"COMPULSORY ACCOUNT PROCEEDING",
	"CONSERVATOR'S SETTLEMENT OF FINAL ACCOUNT",
	"CONSTRUCTION OF WILL",
	"CONTINUE BUSINESS",
	"COPIES",
	"CROSS PETITION (ACCOUNTING)",
	"CROSS PETITION (ADMINISTRATION)",
	"CROSS PETITION (MISCELLANEOUS)",
	"CROSS PETITION (PROBATE)",
	"CY PRES APPLICATION",
	"DENIAL OF PROBATE & GRANTING OF ADMINISTRATION",
	"DETERMINE PREFERENCE OF LIABILITY",
	"DETERMINE THE VALIDITY OF A RIGHT OF ELECTION",
	"DETERMINE VALIDITY OF CLAIM",
	"DISCHARGE TRUSTEE PETITION-INTER VIVOS",
	"DISCOVERY",
	"DISPENSE WITH TESTIMONY OF ATTESTING WITNESS APPLICATION",
	"DISPOSITION OF REAL PROPERTY",
	"ESTATE TAX RETURN (ET706,ET90,TT385)",
	"ESTATE TAX-FIX OR EXEMPT ESTATE FROM TAX",
	"ESTATE TAX-PROCEEDINGS UNDER 998 TAX LAW",
	"EX PARTE ADVANCE PAYMENT OF FEES OR COMMISSIONS",
	"EXECUTOR-APPOINTMENT OF SUCCESSOR EXECUTOR",
	"FAMILY COURT",
	"FEE APLICATION 11-07-1-08",
	"FEE APPLICATION 08/07-10-07 (SEE 1997LT 00023F",
	"FEE APPLICATION 1/08 - 5/08",
	"FEE APPLICATION TO 11/07",
	"FIX COMPENSATION OF ATTORNEY/OTHERS",
	"FIX COMPENSATION OF ATTORNEYS OR OTHERS",
	"INCREASE/DECREASE THE AMOUNT OF FIDUCIARY BOND",
	"INTERMEDIATE ACCOUNTING-INTER VIVOS",
	"INVADE TRUST PRINCIPAL",
	"INVADE TRUST PRINCIPLE",
	"JUDICIAL SETTLEMENT OF FINAL ACCOUNT",
	"JUDICIAL SETTLEMENT OF INTERMEDIATE ACCOUNT",
	"JUDICIAL SETTLEMENT-INTER VIVOS",
	"LIMITED ADMINISTRATION",
	"LIMITED ADMINISTRATION PETITION",
	"LIVING TRUST F/B/O LYNN TARBOX",
	"MISC GIFTING",
	"OPEN SAFE DEPOSIT BOX",
	"OTHER ACCOUNTING PETITION",
	"OTHER ACCOUNTING W/FEE PETITION",
	"OTHER ADMINISTRATION PETITION",
	"OTHER ADMINISTRATION W/FEE PETITION",
	"OTHER ESTATE TAX PETITION",
	"OTHER ESTATE TAX W/FEE PETITION",
	"OTHER PETITION",
	"OTHER PETITION-INTER VIVOS",
	"OTHER PROBATE PETITION",
	"OTHER PROBATE W/FEE PETITION",
	"OTHER W/FEE PETITION-INTER VIVOS",
	"PAYMENT ON ACCOUNT OF COMMISSIONS SCPA 2310 (ON NOTICE)",
	"PERMISSION TO PAY DEBT OWED TO FIDUCIARY",
	"PERMISSION TO RESIGN",
	"PERMISSION TO TURNOVER FUNDS PAID INTO COURT",
	"PETITION FOR DISCHARGE",
	"PETITION TO ESTABLISH SUPPLEMENTAL NEEDS TRUST",
	"PETITION TO OBTAIN PROOF OF DIVORCE",
	"PETITION TO SUSPEND, MODIFY, REVOKE OR REMOVE A FIDUCIARY",
	"PETITION TO VACATE DECREE",
	"PRELIMINARY PROBATE PETITION",
	"PRELIMINARY PROBATE PETITION- ANCILLARY",
	"PROBATE & PRELIMINARY PETITIONS",
	"PROBATE & PRELIMINARY PETITIONS WITH TRUSTEE APPOINTMENT",
	"PROBATE AND PRELIMINARY PETITION",
	"PROBATE OF HEIRSHIP",
	"PROBATE PETITION",
	"PROBATE PETITION & APPOINTMENT OF ADMINISTRATOR CTA",
	"PROBATE-ANCILLARY (CTA) PETITION",
	"PROBATE-ANCILLARY PETITION",
	"REFORMATION OF TRUST",
	"REINSTATE SUSPENDED TRUSTEE",
	"RELEASE AGAINST STATE",
	"RELIEF AGAINST A FIDUCIARY",
	"RELIEF-OTHER",
	"RENUNCIATION EXTENSION OF PROPERTY INTEREST PETITION",
	"RENUNCIATION OF PROPERTY INTEREST PETITION",
	"REPORT AND ACCOUNT IN SETTLEMENT OF SMALL ESTATE",
	"REPROBATE PETITION",
	"REV. TRUST",
	"REVERSE DISCOVERY",
	"REVIEW CORPORATE TRUSTEE COMPENSATION",
	"REVOKE OR MODIFY LETTER",
	"SEALED APPOINTMENT OF GUARDIAN",
	"SEVENTH AMENDMENT TO FOUNDATION",
	"STIPULATIONS SETTLING ESTATE",
	"SUPPLEMENTAL PROBATE PETITION",
	"SUPREME COURT",
	"SUSPEND POWERS OF A TRUSTEE",
	"SUSPEND POWERS-FIDUCIARY IN WAR",
	"SUSPEND, MODIFY, REVOKE OR REMOVE A FIDUCIARY",
	"TEMPORARY ADMINISTRATION",
	"TEMPORARY ADMINISTRATION FOR ABSENTEE",
	"TEMPORARY ADMINISTRATION FOR INTERNEE",
	"TEMPORARY ADMINISTRATION PETITION",
	"TERMINATION OF UNECONOMICAL TRUST",
	"TO PUNISH RESPONDENT FOR CONTEMPT",
	"TRUSTEE-APPOINTMENT OF SUCCESSOR TESTAMENTARY",
	"TRUSTEE-APPOINTMENT OF SUCCESSOR TRUSTEE OF SNT",
	"TRUSTEE-APPOINTMENT OF TESTAMENTARY",
	"TRUSTEE-APPOINTMENT OF TESTAMENTARY FILED WITH PROBATE",
	"UNSEALING&4TH AMENDMENT",
	"VOLUNTARY ADMIN (ARTICLE 13) WITHOUT WILL",
	"VOLUNTARY ADMIN AFFIDAVIT (ARTICLE 13) W/O WILL",
	"VOLUNTARY ADMIN AFFIDAVIT (ARTICLE 13) WITH WILL",
	"VOLUNTARY ADMIN AFFIDAVIT (ARTICLE 13) WITHOUT WILL",
	"VOLUNTARY ADMIN SUCCESSOR APPOINTED",
	"VOLUNTARY ADMINISTRATION WITHOUT WILL",
	"WILL FILED NOT FOR PROBATE",
	"WILL FILED PENDING PROBATE",
	"WILL FILED PENDING VOLUNTARY ADMINISTRATION",
	"WILL FOR SAFE KEEPING",
	"WRONGFUL DEATH PETITION",
}
