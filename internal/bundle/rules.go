package bundle

// Rule tests. Kept as regular expression sources so they survive a round
// trip through the document form.
const (
	testJavaScript = `\.jsx?$`
	testTypeScript = `\.ts$`
	testTSX        = `\.tsx$`
	testCSS        = `\.css$`
	testCSSModule  = `\.module\.css$`
	testLess       = `\.less$`
	testLessModule = `\.module\.less$`
	testSass       = `\.s[ac]ss$`
	testSassModule = `\.module\.s[ac]ss$`
	testImage      = `\.(png|jpe?g|gif|svg|webp|avif|ico)$`
	testFont       = `\.(woff2?|eot|ttf|otf)$`
	testMedia      = `\.(mp4|webm|ogg|mp3|wav|flac|aac)$`
	testVue        = `\.vue$`
	excludeModules = `node_modules`
)

// Loader names.
const (
	LoaderSWC        = "builtin:swc-loader"
	LoaderCSSExtract = "css-extract-loader"
	LoaderCSS        = "css-loader"
	LoaderLess       = "less-loader"
	LoaderSass       = "sass-loader"
	LoaderVue        = "vue-loader"
)

// Plugin names.
const (
	PluginProgress   = "ProgressPlugin"
	PluginHTML       = "HtmlPlugin"
	PluginCSSExtract = "CssExtractPlugin"
	PluginVueLoader  = "VueLoaderPlugin"
)

func swc(syntax string, jsx, tsx, react bool) Loader {
	opts := &TransformOptions{JSC: JSC{Parser: Parser{Syntax: syntax, JSX: jsx, TSX: tsx}}}
	if react {
		opts.JSC.Transform = &Transform{React: &ReactTransform{Runtime: "automatic"}}
	}
	return Loader{Loader: LoaderSWC, Options: opts}
}

// transformRules map source extensions to the builtin transform.
func transformRules() []Rule {
	return []Rule{
		{
			Test:    testJavaScript,
			Exclude: excludeModules,
			Type:    ModuleJavaScriptAuto,
			Use:     []Loader{swc("ecmascript", true, false, true)},
		},
		{
			Test:    testTypeScript,
			Exclude: excludeModules,
			Type:    ModuleJavaScriptAuto,
			Use:     []Loader{swc("typescript", false, false, false)},
		},
		{
			Test:    testTSX,
			Exclude: excludeModules,
			Type:    ModuleJavaScriptAuto,
			Use:     []Loader{swc("typescript", false, true, true)},
		},
	}
}

// applicationStyleRules extract plain CSS to files and let the bundler pick
// the CSS flavour of Less and Sass output.
func applicationStyleRules() []Rule {
	return []Rule{
		{
			Test: testCSS,
			Type: ModuleJavaScriptAuto,
			Use:  []Loader{{Loader: LoaderCSSExtract}, {Loader: LoaderCSS}},
		},
		{
			Test: testLess,
			Type: ModuleCSSAuto,
			Use:  []Loader{{Loader: LoaderLess}},
		},
		{
			Test: testSass,
			Type: ModuleCSSAuto,
			Use:  []Loader{{Loader: LoaderSass}},
		},
	}
}

// libraryStyleRules keep styles in the module graph; *.module.* files are
// scoped CSS modules.
func libraryStyleRules() []Rule {
	return []Rule{
		{OneOf: []Rule{
			{Test: testCSSModule, Type: ModuleCSSModule},
			{Test: testCSS, Type: ModuleCSS},
		}},
		{OneOf: []Rule{
			{Test: testLessModule, Type: ModuleCSSModule, Use: []Loader{{Loader: LoaderLess}}},
			{Test: testLess, Type: ModuleCSS, Use: []Loader{{Loader: LoaderLess}}},
		}},
		{OneOf: []Rule{
			{Test: testSassModule, Type: ModuleCSSModule, Use: []Loader{{Loader: LoaderSass}}},
			{Test: testSass, Type: ModuleCSS, Use: []Loader{{Loader: LoaderSass}}},
		}},
	}
}

// applicationAssetRules emit binary assets as hashed files.
func applicationAssetRules() []Rule {
	return []Rule{
		{
			Test:      testImage,
			Type:      ModuleAssetResource,
			Generator: &Generator{Filename: "images/[name].[contenthash][ext]"},
		},
		{
			Test:      testFont,
			Type:      ModuleAssetResource,
			Generator: &Generator{Filename: "fonts/[name].[contenthash][ext]"},
		},
		{
			Test:      testMedia,
			Type:      ModuleAssetResource,
			Generator: &Generator{Filename: "media/[name].[contenthash][ext]"},
		},
	}
}

// libraryAssetRules inline binary assets as data URLs.
func libraryAssetRules() []Rule {
	return []Rule{
		{Test: testImage, Type: ModuleAssetInline},
		{Test: testFont, Type: ModuleAssetInline},
	}
}

func vueRule() Rule {
	return Rule{Test: testVue, Use: []Loader{{Loader: LoaderVue}}}
}
