package protocol

// Datagram request tags and their response tags.
const (
	TagLIN = "LIN"
	TagLOU = "LOU"
	TagUNR = "UNR"
	TagLME = "LME"
	TagLMR = "LMR"

	TagRLI = "RLI"
	TagRLO = "RLO"
	TagRUR = "RUR"
	TagRME = "RME"
	TagRMR = "RMR"
)

// Stream request tags and their response tags.
const (
	TagLST = "LST"
	TagCRE = "CRE"
	TagRID = "RID"
	TagCLS = "CLS"
	TagSED = "SED"
	TagCPS = "CPS"

	TagRLS = "RLS"
	TagRCE = "RCE"
	TagRRI = "RRI"
	TagRCL = "RCL"
	TagRSE = "RSE"
	TagRCP = "RCP"
)

// Status codes shared across commands.
const (
	StatusOK  = "OK"
	StatusREG = "REG"
	StatusNOK = "NOK"
	StatusERR = "ERR"
	StatusNLG = "NLG"
	StatusWRP = "WRP"
	StatusUNR = "UNR"
	StatusNID = "NID"
	StatusACC = "ACC"
	StatusREJ = "REJ"
	StatusCLS = "CLS"
	StatusSLD = "SLD"
	StatusPST = "PST"
	StatusCLO = "CLO"
	StatusEOW = "EOW"
	StatusNOE = "NOE"
)
